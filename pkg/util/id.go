// Package util contains small helpers shared across the application that
// don't belong to any other package
package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	IDLength  = 16
)

// NewID returns a random record identifier.
func NewID() (string, error) {
	return gonanoid.Generate(idCharset, IDLength)
}

// RandStr returns a random alphanumeric string of length n.
func RandStr(n int) string {
	return gonanoid.MustGenerate(idCharset, n)
}

// ValidID reports whether id has the shape produced by NewID.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}

	return true
}
