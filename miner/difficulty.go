package miner

// MeetsDifficulty reports whether the hex digest starts with at least difficulty '0'
// characters. A difficulty longer than the digest never matches.
func MeetsDifficulty(hexDigest string, difficulty int) bool {
	if difficulty > len(hexDigest) {
		return false
	}
	for i := 0; i < difficulty; i++ {
		if hexDigest[i] != '0' {
			return false
		}
	}
	return true
}

// meetsDifficultyRaw is MeetsDifficulty on raw digest bytes, without hex encoding
func meetsDifficultyRaw(sum []byte, difficulty int) bool {
	if difficulty > 2*len(sum) {
		return false
	}

	// Fast path: whole zero bytes
	full := difficulty / 2
	for i := 0; i < full; i++ {
		if sum[i] != 0 {
			return false
		}
	}
	if difficulty%2 == 1 && sum[full] >= 0x10 {
		return false
	}
	return true
}
