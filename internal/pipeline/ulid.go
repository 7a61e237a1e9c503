package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// ULIDs identify jobs and documents: 26-character Crockford Base32 strings
// with a 48-bit millisecond timestamp prefix, so they sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps IDs unique within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 maps 128 bits to 26 Crockford characters, consuming five bits
// per character from a shifting accumulator.
func encodeBase32(b [16]byte) string {
	var out [26]byte

	// The first character carries only the top three bits so the
	// remaining 125 bits divide evenly into 25 characters.
	out[0] = crockford[b[0]>>5]

	acc := uint64(b[0] & 0x1f)
	bits := 5
	src := 1

	for i := 1; i < 26; i++ {
		for bits < 5 && src < 16 {
			acc = acc<<8 | uint64(b[src])
			bits += 8
			src++
		}
		shift := bits - 5
		out[i] = crockford[(acc>>shift)&0x1f]
		acc &= (1 << shift) - 1
		bits = shift
	}

	return string(out[:])
}
