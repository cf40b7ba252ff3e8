package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "querycache",
	Short: "TTL response cache gateway",
	Long: `querycache memoizes expensive query resolutions behind a TTL cache.

Each request is identified by a deterministic fingerprint of its query
string and context mapping; within the configured TTL identical requests
are answered from memory, after it they are resolved upstream again.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
