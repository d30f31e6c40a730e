package miner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestKnownAnswers(t *testing.T) {
	tests := []struct {
		algorithm string
		input     string
		expected  string
	}{
		{"sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha256", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"sha3-256", "abc", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{"keccak256", "abc", "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
		{"keccak256", "", "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"blake2b-256", "abc", "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"},
	}

	for _, tc := range tests {
		t.Run(tc.algorithm+"/"+tc.input, func(t *testing.T) {
			d, err := NewDigester(tc.algorithm)
			require.NoError(t, err)
			assert.Equal(t, tc.algorithm, d.Name())
			assert.Equal(t, 32, d.Size())

			// Twice, to cover state reuse
			assert.Equal(t, tc.expected, HexDigest(d, []byte(tc.input)))
			assert.Equal(t, tc.expected, HexDigest(d, []byte(tc.input)))
		})
	}
}

func TestNewDigesterUnknown(t *testing.T) {
	_, err := NewDigester("md5")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.False(t, KnownAlgorithm("md5"))
}

func TestAlgorithmsSorted(t *testing.T) {
	assert.Equal(t, []string{"blake2b-256", "keccak256", "sha256", "sha3-256"}, Algorithms())
	for _, name := range Algorithms() {
		assert.True(t, KnownAlgorithm(name))
	}
}

func TestAppendCandidate(t *testing.T) {
	assert.Equal(t, "test:0", string(AppendCandidate(nil, "test", 0)))
	assert.Equal(t, "cmkl-pow:18446744073709551615", string(AppendCandidate(nil, "cmkl-pow", ^uint64(0))))
	assert.Equal(t, ":42", string(AppendCandidate(nil, "", 42)))

	// Appends to the existing buffer
	buf := []byte("xx")
	assert.Equal(t, "xxp:7", string(AppendCandidate(buf, "p", 7)))
}

func TestSumAppendsToDst(t *testing.T) {
	d, err := NewDigester("sha256")
	require.NoError(t, err)

	dst := []byte{0xaa}
	out := d.Sum(dst, []byte("abc"))
	require.Len(t, out, 33)
	assert.Equal(t, byte(0xaa), out[0])
}

func TestKeccakX4MatchesScalar(t *testing.T) {
	x4 := newKeccakX4()
	if x4 == nil {
		t.Skip("4-way Keccak not available on this platform")
	}

	for length := 0; length <= keccakMaxSingleBlock; length++ {
		var data [4][]byte
		for lane := range data {
			data[lane] = bytes.Repeat([]byte{byte('a' + lane)}, length)
		}

		var out [4][32]byte
		require.True(t, x4.sum(&data, &out))
		for lane := range data {
			want := crypto.Keccak256(data[lane])
			assert.Equal(t, want, out[lane][:], "length %d lane %d", length, lane)
		}
	}
}

func TestKeccakX4RejectsMultiBlockInput(t *testing.T) {
	x4 := newKeccakX4()
	if x4 == nil {
		t.Skip("4-way Keccak not available on this platform")
	}

	data := [4][]byte{{}, {}, {}, make([]byte, keccakRate)}
	var out [4][32]byte
	assert.False(t, x4.sum(&data, &out))
	assert.Equal(t, [4][32]byte{}, out)
}

func TestBatchKeccakDigesterFallsBackForLongInput(t *testing.T) {
	d, err := NewDigester("keccak256")
	require.NoError(t, err)
	bd, ok := d.(BatchDigester)
	if !ok {
		t.Skip("4-way Keccak not available on this platform")
	}

	long := []byte(strings.Repeat("p", 200))
	data := [4][]byte{[]byte("a:1"), []byte("a:2"), long, []byte("a:4")}
	var out [4][32]byte
	bd.SumX4(&data, &out)

	for lane := range data {
		assert.Equal(t, crypto.Keccak256(data[lane]), out[lane][:], "lane %d", lane)
	}
}
