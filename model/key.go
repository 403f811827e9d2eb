package model

import (
	"encoding/binary"
	"encoding/hex"
)

// Key identifies the content of one exposure: experiment name, inputs and
// the finalized parameter set.
type Key struct {
	hi uint64
	lo uint64
}

func NewKey(hi, lo uint64) Key {
	return Key{hi: hi, lo: lo}
}

func (k Key) IsTheSame(key Key) (same bool) {
	return k.hi == key.hi && k.lo == key.lo
}

// Bytes returns the big-endian 16 byte form of the key.
func (k Key) Bytes() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], k.hi)
	binary.BigEndian.PutUint64(b[8:], k.lo)
	return b
}

func (k Key) String() string {
	return hex.EncodeToString(k.Bytes())
}
