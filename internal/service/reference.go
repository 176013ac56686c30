package service

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// DefaultReferencePrefix starts every booking reference.
	DefaultReferencePrefix = "HUF"

	referenceAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceSuffixLen = 5

	// Largest multiple of len(referenceAlphabet) that fits in a byte; bytes at
	// or above it are redrawn so every symbol is equally likely.
	referenceByteLimit = 252
)

// ReferenceGenerator produces human-shareable booking references: a fixed
// prefix followed by five base-36 characters. Uniqueness is not guaranteed;
// the booking store enforces it and the caller retries on conflict.
type ReferenceGenerator struct {
	prefix string
	random io.Reader
}

// NewReferenceGenerator creates a generator backed by crypto/rand.
func NewReferenceGenerator(prefix string) *ReferenceGenerator {
	return NewReferenceGeneratorWithSource(prefix, rand.Reader)
}

// NewReferenceGeneratorWithSource creates a generator reading from src.
// Primarily used for testing.
func NewReferenceGeneratorWithSource(prefix string, src io.Reader) *ReferenceGenerator {
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}
	return &ReferenceGenerator{prefix: prefix, random: src}
}

// Prefix returns the fixed reference prefix.
func (g *ReferenceGenerator) Prefix() string {
	return g.prefix
}

// Generate returns a new candidate reference.
func (g *ReferenceGenerator) Generate() (string, error) {
	suffix := make([]byte, 0, referenceSuffixLen)
	buf := make([]byte, referenceSuffixLen)

	for len(suffix) < referenceSuffixLen {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= referenceByteLimit {
				continue
			}
			suffix = append(suffix, referenceAlphabet[int(b)%len(referenceAlphabet)])
			if len(suffix) == referenceSuffixLen {
				break
			}
		}
	}

	return g.prefix + string(suffix), nil
}
