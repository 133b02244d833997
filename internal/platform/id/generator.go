package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Generator creates opaque IDs for picks and for feed rows that arrive
// without a usable external ID.
type Generator interface {
	NewID() (string, error)
}

// idEncoding is unpadded base32, which keeps IDs shorter than hex while
// still safe in URL path segments.
var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// RandomGenerator issues 26-character lowercase IDs from 16 random bytes.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToLower(idEncoding.EncodeToString(buf)), nil
}
