// Package deviate turns ordered salt tokens into deterministic uniform values.
//
// Pipeline (frozen, changing it re-randomizes every live experiment):
//
//	text   = join(canonical(token)..., ".")
//	digest = sha1(text)
//	h      = first 15 hex digits of digest (top 60 bits, big-endian)
//	float  = h / 0xFFFFFFFFFFFFFFF, clamped below 1
//	int    = lo + h mod (hi - lo + 1)
//
// Integer ranges are limited to MaxSpan values; wider ranges cannot be
// covered uniformly by a 60 bit h and are rejected.
package deviate

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"github.com/Borislavv/go-ash-split/model"
	"math"
	"strings"
)

// Delimiter joins canonical salt tokens.
const Delimiter = "."

// LongScale is the largest value of a 15 hex digit prefix.
const LongScale uint64 = 0xFFFFFFFFFFFFFFF

const longScale = float64(LongScale)

// MaxSpan is the widest integer range Int accepts (2^60 values).
const MaxSpan = LongScale + 1

// Join canonicalizes and joins salt tokens.
func Join(salt []any) (string, error) {
	var b strings.Builder
	for i, v := range salt {
		s, err := Canonical(v)
		if err != nil {
			return "", fmt.Errorf("salt token %d: %w", i, err)
		}
		if i > 0 {
			b.WriteString(Delimiter)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// Hash returns the 60 bit integer of the salt.
func Hash(salt ...any) (uint64, error) {
	text, err := Join(salt)
	if err != nil {
		return 0, err
	}
	sum := sha1.Sum([]byte(text))
	return binary.BigEndian.Uint64(sum[:8]) >> 4, nil
}

// Float returns the deviate of the salt in [0, 1).
func Float(salt ...any) (float64, error) {
	h, err := Hash(salt...)
	if err != nil {
		return 0, err
	}
	return toUnit(h), nil
}

// Int returns an integer in [lo, hi], both ends inclusive.
func Int(lo, hi int64, salt ...any) (int64, error) {
	if lo > hi {
		return 0, fmt.Errorf("%w: lower bound %d exceeds upper bound %d", model.ErrInvalidParameter, lo, hi)
	}
	w := width(lo, hi)
	if w == 0 || w > MaxSpan {
		return 0, fmt.Errorf("%w: range [%d, %d] is wider than %d values", model.ErrInvalidParameter, lo, hi, MaxSpan)
	}
	h, err := Hash(salt...)
	if err != nil {
		return 0, err
	}
	return lo + int64(h%w), nil
}

// width is hi-lo+1 computed without signed overflow; the full int64 range wraps to 0.
func width(lo, hi int64) uint64 {
	return uint64(hi) - uint64(lo) + 1
}

func toUnit(h uint64) float64 {
	f := float64(h) / longScale
	if f >= 1 {
		// the top few prefixes round to 1.0 in float64
		return math.Nextafter(1, 0)
	}
	return f
}
