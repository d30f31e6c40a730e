package miner

import (
	"encoding/hex"
	"fmt"
	"hash"
	"slices"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digester is a reusable digest oracle. Implementations keep internal state and must not be
// shared between goroutines; every worker builds its own.
type Digester interface {
	// Name returns the registry name of the algorithm
	Name() string
	// Size returns the digest length in bytes
	Size() int
	// Sum appends the digest of data to dst and returns the extended slice
	Sum(dst, data []byte) []byte
}

// BatchDigester digests four inputs at once
type BatchDigester interface {
	Digester
	SumX4(data *[4][]byte, out *[4][32]byte)
}

var digesters = map[string]func() Digester{
	"sha256": func() Digester {
		return &hashDigester{name: "sha256", h: sha256.New()}
	},
	"sha3-256": func() Digester {
		return &hashDigester{name: "sha3-256", h: sha3.New256()}
	},
	"blake2b-256": func() Digester {
		// New256 only fails for keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		return &hashDigester{name: "blake2b-256", h: h}
	},
	"keccak256": func() Digester {
		return newKeccakDigester()
	},
}

// Algorithms returns the registered digest names in sorted order
func Algorithms() []string {
	names := make([]string, 0, len(digesters))
	for name := range digesters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// KnownAlgorithm reports whether name is registered
func KnownAlgorithm(name string) bool {
	_, ok := digesters[name]
	return ok
}

// NewDigester returns a fresh digester for the named algorithm
func NewDigester(name string) (Digester, error) {
	newFn, ok := digesters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return newFn(), nil
}

// HexDigest returns the lowercase hex digest of data
func HexDigest(d Digester, data []byte) string {
	return hex.EncodeToString(d.Sum(nil, data))
}

// AppendCandidate appends prefix + ":" + decimal(nonce) to dst
func AppendCandidate(dst []byte, prefix string, nonce uint64) []byte {
	dst = append(dst, prefix...)
	dst = append(dst, candidateSeparator)
	return strconv.AppendUint(dst, nonce, 10)
}

// hashDigester adapts a hash.Hash, reusing it across calls
type hashDigester struct {
	name string
	h    hash.Hash
}

func (d *hashDigester) Name() string { return d.name }

func (d *hashDigester) Size() int { return d.h.Size() }

func (d *hashDigester) Sum(dst, data []byte) []byte {
	d.h.Reset()
	d.h.Write(data)
	return d.h.Sum(dst)
}

// keccakDigester is legacy Keccak-256 as used by Ethereum
type keccakDigester struct {
	state crypto.KeccakState
	x4    *keccakX4
}

func newKeccakDigester() Digester {
	d := &keccakDigester{state: crypto.NewKeccakState()}
	if x4 := newKeccakX4(); x4 != nil {
		d.x4 = x4
		return &batchKeccakDigester{d}
	}
	return d
}

func (d *keccakDigester) Name() string { return "keccak256" }

func (d *keccakDigester) Size() int { return 32 }

func (d *keccakDigester) Sum(dst, data []byte) []byte {
	h := crypto.HashData(d.state, data)
	return append(dst, h[:]...)
}

// batchKeccakDigester is the keccak digester on hosts with the 4-way permutation
type batchKeccakDigester struct {
	*keccakDigester
}

func (d *batchKeccakDigester) SumX4(data *[4][]byte, out *[4][32]byte) {
	if !d.x4.sum(data, out) {
		for i := range data {
			h := crypto.HashData(d.state, data[i])
			out[i] = h
		}
	}
}
