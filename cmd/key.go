package cmd

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/nvarley/querycache/pkg/fingerprint"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Derive the cache key for a query and context",
	Long: `Computes the fingerprint a (query, context) pair maps to, without
touching any cache. Useful for checking which entry an invalidation would
target, or for confirming two requests share an entry.

Example:
  querycache key --query "capital of France" --context '{"lang":"en"}'`,
	RunE: runKey,
}

var (
	keyQuery   string
	keyContext string
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(keyCmd)

	keyCmd.Flags().StringVarP(&keyQuery, "query", "q", "", "Query string (required)")
	keyCmd.Flags().StringVarP(&keyContext, "context", "c", "", "Context mapping as a JSON object")
	_ = keyCmd.MarkFlagRequired("query")
}

func runKey(cmd *cobra.Command, args []string) error {
	var queryCtx map[string]interface{}
	if keyContext != "" {
		if err := json.Unmarshal([]byte(keyContext), &queryCtx); err != nil {
			return fmt.Errorf("parse context: %w", err)
		}
	}

	key, err := fingerprint.Key(keyQuery, queryCtx)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	canonical, err := fingerprint.Canonical(queryCtx)
	if err != nil {
		return fmt.Errorf("canonicalize context: %w", err)
	}

	fmt.Printf("key:       %s\n", key)
	fmt.Printf("canonical: %s\n", canonical)

	return nil
}
