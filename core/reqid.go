package core

import (
	"crypto/rand"
	"encoding/binary"
)

// NewRequestID draws a 32-bit request correlation number from a
// cryptographically seeded source, per §4.E's new_id(). The sequencer
// itself does not guarantee uniqueness: a collision within the capacity-10
// window simply evicts the oldest outstanding entry, same as any other
// overflow.
func NewRequestID() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("zeronet-core: crypto/rand unavailable: " + err.Error())
	}
	return binary.BigEndian.Uint32(b[:])
}
