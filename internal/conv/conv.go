// Package conv provides checked narrowing conversions for the match
// engine's index arithmetic.
//
// The functions panic on overflow: an activation key or capture index that
// does not fit its storage type indicates a configuration error (limits
// set beyond what the engine supports), not a recoverable condition.
package conv

import "math"

// Uint64ToUint32 converts a uint64 to uint32, panicking on overflow.
func Uint64ToUint32(n uint64) uint32 {
	if n > math.MaxUint32 {
		panic("conv: uint64 value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint32 converts an int to uint32, panicking when n is negative or
// too large.
//
// The comparison goes through uint so the bound is exact on 32-bit
// platforms, where int cannot represent math.MaxUint32.
func IntToUint32(n int) uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}
