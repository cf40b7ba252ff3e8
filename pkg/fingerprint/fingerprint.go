// Package fingerprint derives deterministic cache keys from a query string
// plus a context mapping.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	json "github.com/goccy/go-json"
)

// SerializationError indicates the context mapping could not be canonically
// serialized (non-JSON values such as funcs or channels, or cyclic data).
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("fingerprint: context is not serializable: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Key computes the fingerprint for a (query, context) pair.
//
// The context is serialized to canonical JSON (object keys sorted
// lexicographically at every nesting level, as the encoder guarantees for
// maps), so two mappings with equal contents always produce the same key
// regardless of construction or iteration order. A nil context is treated
// as an empty mapping.
//
// The query and the canonical context are length-prefixed before hashing,
// so no (query, context) pair can alias another by shifting bytes across
// the boundary. The digest is SHA-256, hex-encoded; it is stable across
// runs and processes.
func Key(query string, context map[string]interface{}) (string, error) {
	canonical, err := Canonical(context)
	if err != nil {
		return "", err
	}

	h := sha256.New()

	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(query)))
	h.Write(prefix[:])
	h.Write([]byte(query))

	binary.BigEndian.PutUint64(prefix[:], uint64(len(canonical)))
	h.Write(prefix[:])
	h.Write(canonical)

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Canonical returns the canonical JSON serialization of a context mapping.
// A nil context serializes as the empty object.
func Canonical(context map[string]interface{}) ([]byte, error) {
	if context == nil {
		context = map[string]interface{}{}
	}

	data, err := json.Marshal(context)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	return data, nil
}
