package model

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a fresh 24-character hex identifier.
func NewID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on the supported platforms.
		panic(err)
	}
	return hex.EncodeToString(b)
}

// ValidID reports whether s has the 24-hex-character identifier format.
func ValidID(s string) bool {
	return idRe.MatchString(s)
}
