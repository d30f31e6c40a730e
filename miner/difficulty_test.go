package miner

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetsDifficulty(t *testing.T) {
	tests := []struct {
		digest     string
		difficulty int
		expected   bool
	}{
		{"abcdef", 0, true},
		{"", 0, true},
		{"0abc", 1, true},
		{"0abc", 2, false},
		{"000000ff", 6, true},
		{"000000ff", 7, false},
		{"0000", 4, true},
		{"0000", 5, false}, // longer than the digest
		{"a000", 1, false},
	}

	for _, tc := range tests {
		got := MeetsDifficulty(tc.digest, tc.difficulty)
		assert.Equal(t, tc.expected, got, "MeetsDifficulty(%q, %d)", tc.digest, tc.difficulty)
	}
}

func TestMeetsDifficultyRawMatchesHex(t *testing.T) {
	sums := [][]byte{
		{0x00, 0x00, 0x00, 0xff},
		{0x00, 0x0f, 0xff, 0xff},
		{0x0f, 0xff},
		{0xf0, 0x00},
		{0x00, 0x00},
		{0x10},
	}

	// Real digests as well, including a few with leading zero nibbles
	d, err := NewDigester("sha256")
	require.NoError(t, err)
	for nonce := uint64(0); nonce < 2_000; nonce++ {
		sums = append(sums, d.Sum(nil, AppendCandidate(nil, "test", nonce)))
	}

	for _, sum := range sums {
		hexDigest := hex.EncodeToString(sum)
		for difficulty := 0; difficulty <= 2*len(sum)+1; difficulty++ {
			assert.Equal(t,
				MeetsDifficulty(hexDigest, difficulty),
				meetsDifficultyRaw(sum, difficulty),
				"digest %s difficulty %d", hexDigest, difficulty)
		}
	}
}
