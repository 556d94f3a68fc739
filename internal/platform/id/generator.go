package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator mints opaque canonical ids. Canonical ids are the only stable
// reference to an entity; provider ids live in external_ids maps.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Sequence is a deterministic generator for tests and seeded fixtures.
type Sequence struct {
	prefix string
	next   int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("%s-%06d", s.prefix, s.next), nil
}
