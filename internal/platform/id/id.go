// Package id generates opaque identifiers for browser sessions.
package id

import (
	"strings"

	"github.com/rs/xid"
)

// NewID returns a new globally unique, URL-safe identifier.
func NewID() string {
	return xid.New().String()
}

// Valid reports whether value is an identifier produced by NewID.
func Valid(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := xid.FromString(value)
	return err == nil
}
