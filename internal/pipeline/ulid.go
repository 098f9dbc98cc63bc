package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// IDs are ULIDs: 26 Crockford base32 characters over a 48-bit millisecond
// timestamp, a 16-bit sequence and 64 random bits. IDs made by one process
// sort by creation time.

var (
	idMu    sync.Mutex
	lastMs  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns a new job or document ID.
func NewID() string {
	idMu.Lock()
	ms := uint64(time.Now().UnixMilli())
	if ms <= lastMs {
		// Same millisecond, or the clock stepped back.
		ms = lastMs
		lastSeq++
		if lastSeq == 0 {
			ms++
		}
	} else {
		lastSeq = 0
	}
	lastMs = ms
	seq := lastSeq
	idMu.Unlock()

	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], ms<<16|uint64(seq))
	rand.Read(b[8:])
	return encodeBase32(b)
}

// encodeBase32 writes the 128 bits of b as 26 base32 digits, most
// significant first. The top digit carries only 3 bits.
func encodeBase32(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])
	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
