// Package rng is the campaign's source of randomness. Every probabilistic
// decision goes through a Source so tests can script the draws.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source draws uniform random numbers.
type Source interface {
	// Float64 returns a number in [0,1).
	Float64() float64
	// Intn returns a number in [0,n). It panics if n <= 0.
	Intn(n int) int
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a deterministic source for the given seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Sequence replays scripted draws. Float64 and Intn consume from separate
// scripts; an exhausted script repeats its last value (or 0 when empty).
type Sequence struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

// NewSequence returns a source that yields floats in order.
func NewSequence(floats ...float64) *Sequence {
	return &Sequence{floats: floats}
}

// WithInts sets the script for Intn. Values are reduced modulo n.
func (s *Sequence) WithInts(ints ...int) *Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = ints
	s.ii = 0
	return s
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	if s.fi >= len(s.floats) {
		return s.floats[len(s.floats)-1]
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

// Intn implements Source.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return 0
	}
	var v int
	if s.ii >= len(s.ints) {
		v = s.ints[len(s.ints)-1]
	} else {
		v = s.ints[s.ii]
		s.ii++
	}
	return ((v % n) + n) % n
}

// Draws returns how many floats have been consumed.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fi
}
