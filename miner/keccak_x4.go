package miner

import (
	"encoding/binary"

	"github.com/cloudflare/circl/simd/keccakf1600"
)

const (
	// keccakRate is the Keccak-256 rate in bytes (1088 bits)
	keccakRate = 136
	// keccakMaxSingleBlock is the longest input that fits in one padded block
	keccakMaxSingleBlock = keccakRate - 1
)

// keccakX4 computes four single-block Keccak-256 digests with one 4-way permutation
type keccakX4 struct {
	perm  keccakf1600.StateX4
	block [keccakRate]byte
}

// newKeccakX4 returns nil when the host has no 4-way permutation
func newKeccakX4() *keccakX4 {
	if !keccakf1600.IsEnabledX4() {
		return nil
	}
	return &keccakX4{}
}

// sum hashes the four inputs into out. It returns false without touching out if any input
// needs more than one block.
func (k *keccakX4) sum(data *[4][]byte, out *[4][32]byte) bool {
	for lane := range data {
		if len(data[lane]) > keccakMaxSingleBlock {
			return false
		}
	}

	state := k.perm.Initialize(false) // 24-round Keccak

	// State layout: state[4*word + lane]
	for lane := range 4 {
		clear(k.block[:])
		n := copy(k.block[:], data[lane])
		k.block[n] ^= 0x01 // Keccak domain separator (SHA3-256 uses 0x06)
		k.block[keccakRate-1] ^= 0x80

		for word := 0; word < keccakRate/8; word++ {
			state[4*word+lane] = binary.LittleEndian.Uint64(k.block[word*8 : word*8+8])
		}
		// Capacity words
		for word := keccakRate / 8; word < 25; word++ {
			state[4*word+lane] = 0
		}
	}

	k.perm.Permute()

	for lane := range 4 {
		for word := range 4 {
			binary.LittleEndian.PutUint64(out[lane][word*8:word*8+8], state[4*word+lane])
		}
	}
	return true
}
