package testutil

// Record is one input record reduced to the three things the streaming
// algorithm actually looks at: its position, fingerprint, and whether
// it is TRACKED or BYPASSED.
type Record struct {
	Pos     int
	FP      string
	Tracked bool
}

type pendingEntry struct {
	pos     int
	fp      string
	tracked bool
}

type candidate struct {
	start int
	phase int
	fps   []string
}

// NaiveDedup is a reference implementation of the same suppression
// semantics, built independently of internal/dedup's ring buffer, LRU
// index, and candidate eviction cap: everything here is an unbounded
// slice or map. It exists so property tests can cross-check the
// production implementation's streaming plumbing against a
// straightforward restatement of the rule:
//
//	suppress every record that is part of an N-record window whose
//	fingerprints exactly match an earlier, already-emitted N-record
//	window, where in-progress matches are abandoned at every BYPASSED
//	record.
//
// NaiveDedup returns the emitted positions in normal mode, or the
// suppressed positions when invert is true.
func NaiveDedup(records []Record, windowSize int, invert bool) []int {
	var pending []pendingEntry
	var active []candidate
	suppressed := make(map[int]bool)
	byFirstFP := make(map[string][][]string)
	var emittedRun []string

	finalize := func(newestPos int) []int {
		var emitted []int
		for len(pending) > 0 {
			front := pending[0]
			if hasActive(active, front.pos) {
				break
			}
			if newestPos <= front.pos {
				break
			}
			pending = pending[1:]

			wasSuppressed := suppressed[front.pos]
			delete(suppressed, front.pos)

			shouldEmit := wasSuppressed
			if !invert {
				shouldEmit = !wasSuppressed
			}
			if shouldEmit {
				emitted = append(emitted, front.pos)
			}

			if !front.tracked {
				emittedRun = nil
				continue
			}
			// Window registration always follows the normal-mode
			// decision (!wasSuppressed), never the inverse-flipped
			// shouldEmit -- otherwise inverse mode would never
			// register a first-occurrence window.
			if wasSuppressed {
				emittedRun = nil
				continue
			}

			emittedRun = append(emittedRun, front.fp)
			if len(emittedRun) > windowSize {
				emittedRun = emittedRun[len(emittedRun)-windowSize:]
			}
			if len(emittedRun) == windowSize {
				first := emittedRun[0]
				fps := append([]string(nil), emittedRun...)
				known := false
				for _, b := range byFirstFP[first] {
					if sliceEqual(b, fps) {
						known = true
						break
					}
				}
				if !known {
					byFirstFP[first] = append(byFirstFP[first], fps)
				}
			}
		}
		return emitted
	}

	var out []int
	for _, r := range records {
		out = append(out, finalize(r.Pos)...)

		if !r.Tracked {
			active = nil
			pending = append(pending, pendingEntry{pos: r.Pos, fp: r.FP, tracked: false})
			continue
		}

		var kept []candidate
		for _, c := range active {
			if r.FP != c.fps[c.phase+1] {
				continue
			}
			c.phase++
			if c.phase == windowSize-1 {
				start := r.Pos - windowSize + 1
				for p := start; p <= r.Pos; p++ {
					suppressed[p] = true
				}
				continue
			}
			kept = append(kept, c)
		}
		active = kept

		if bucket := byFirstFP[r.FP]; len(bucket) > 0 {
			if windowSize == 1 {
				suppressed[r.Pos] = true
			} else {
				active = append(active, candidate{start: r.Pos, phase: 0, fps: bucket[0]})
			}
		}

		pending = append(pending, pendingEntry{pos: r.Pos, fp: r.FP, tracked: true})
	}

	// End of input: candidates that never completed are abandoned, so
	// they no longer hold back the records they cover.
	active = nil
	out = append(out, finalize(1<<62)...)
	return out
}

func hasActive(active []candidate, pos int) bool {
	for _, c := range active {
		if c.start <= pos {
			return true
		}
	}
	return false
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
