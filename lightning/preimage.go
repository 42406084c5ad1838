package lightning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	PreimageSize = 32
	HashSize     = 32
)

// Preimage is the secret revealed when a payment settles.
type Preimage [PreimageSize]byte

// Hash typically holds a payment hash.
type Hash [HashSize]byte

func (p Preimage) String() string {
	return hex.EncodeToString(p[:])
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MakePreimage returns an error unless b is exactly PreimageSize bytes.
func MakePreimage(b []byte) (Preimage, error) {
	var p Preimage
	if len(b) != PreimageSize {
		return p, fmt.Errorf("invalid preimage length of %v, want %v", len(b), PreimageSize)
	}
	copy(p[:], b)
	return p, nil
}

// MakeHash returns an error unless b is exactly HashSize bytes.
func MakeHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, fmt.Errorf("invalid hash length of %v, want %v", len(b), HashSize)
	}
	copy(h[:], b)
	return h, nil
}

// MakeHashFromStr decodes a hex payment hash.
func MakeHashFromStr(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	return MakeHash(b)
}

func (p Preimage) Hash() Hash {
	return Hash(sha256.Sum256(p[:]))
}

// Matches reports whether p is the preimage of h.
func (p Preimage) Matches(h Hash) bool {
	return h == p.Hash()
}
