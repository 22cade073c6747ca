package testutil

// StreamGenConfig controls the shape of a generated record stream.
type StreamGenConfig struct {
	// AlphabetSize bounds how many distinct fingerprints can appear; a
	// small alphabet forces repeats to actually occur.
	AlphabetSize int

	// RepeatRate is the percentage chance (0-100) that the next record
	// replays a previously seen fingerprint rather than a fresh one.
	RepeatRate int

	// BypassRate is the percentage chance (0-100) that a record is
	// BYPASSED instead of TRACKED.
	BypassRate int
}

// DefaultStreamGenConfig returns a configuration likely to produce both
// repeated and non-repeated windows, plus the occasional bypass.
func DefaultStreamGenConfig() StreamGenConfig {
	return StreamGenConfig{AlphabetSize: 5, RepeatRate: 50, BypassRate: 10}
}

// GenerateStream deterministically derives a record stream from
// fuzzBytes: the same bytes always produce the same stream, which is
// what lets a fuzz corpus regression-test a specific failure forever.
func GenerateStream(fuzzBytes []byte, n int, cfg StreamGenConfig) []Record {
	stream := NewByteStream(fuzzBytes)
	records := make([]Record, n)

	var history []string
	for i := 0; i < n; i++ {
		fp := nextFingerprint(stream, cfg, history)
		history = append(history, fp)

		tracked := int(stream.NextByte())%100 >= cfg.BypassRate
		records[i] = Record{Pos: i, FP: fp, Tracked: tracked}
	}
	return records
}

func nextFingerprint(stream *ByteStream, cfg StreamGenConfig, history []string) string {
	if len(history) > 0 && int(stream.NextByte())%100 < cfg.RepeatRate {
		return history[stream.NextInt(len(history))]
	}
	return string(rune('A' + stream.NextInt(max(cfg.AlphabetSize, 1))))
}
