// Package id generates time-sortable identifiers for sessions and
// request tracing.
package id

import (
	"crypto/rand"
	"time"
)

// Crockford base32: no I, L, O, or U, so ids survive being read aloud.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: 48 bits of millisecond
// timestamp followed by 80 random bits, base32-encoded. Ids created
// later sort later, which keeps session and log scans readable.
func NewULID() string {
	var out [26]byte

	// Timestamp half: 48 bits fill exactly 10 characters.
	ms := uint64(time.Now().UnixMilli())
	for i := 9; i >= 0; i-- {
		out[i] = alphabet[ms&0x1F]
		ms >>= 5
	}

	// Random half: 80 bits fill exactly 16 characters.
	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it ever
		// does, a degraded time-seeded id beats an empty one.
		now := time.Now().UnixNano()
		for i := range entropy {
			entropy[i] = byte(now >> (uint(i) * 8))
		}
	}

	acc, bits, pos := uint64(0), 0, 10
	for _, b := range entropy {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>uint(bits))&0x1F]
			pos++
		}
	}

	return string(out[:])
}
