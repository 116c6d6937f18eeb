// Package ident generates short opaque identifiers for locally tracked files.
//
// Identifiers are drawn from [A-Za-z0-9] using the process-wide random
// source. There is no collision detection: at the default length the space is
// large enough that collisions within one staging list are not a concern.
package ident

import "math/rand/v2"

// DefaultLength is used when a non-positive length is requested.
const DefaultLength = 8

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// New returns a random identifier of the given length.
func New(length int) string {
	return newFrom(rand.IntN, length)
}

// Generator returns a func producing identifiers of a fixed length, suitable
// for injection into components that mint ids.
func Generator(length int) func() string {
	return func() string { return New(length) }
}

func newFrom(intn func(int) int, length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[intn(len(alphabet))]
	}
	return string(buf)
}
