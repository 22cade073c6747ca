package dedup

// liveCandidate pairs the public Candidate shape with the bookkeeping
// needed to advance it: a pointer to the historical window it is
// tracking, so "the (k+1)-th fingerprint of the window originally seen
// starting at s" is an O(1) slice index rather than a fresh lookup.
type liveCandidate struct {
	Candidate
	source *windowRecord
}

// candidateTracker is the candidate tracker (C4): up to K active
// candidates plus the completed-window suppression mask they produce.
//
// K is expected to be small (tens), so a linear scan per record is the
// idiomatic choice here -- the same call the design notes make for this
// component -- rather than a heap.
type candidateTracker struct {
	windowSize int
	maxActive  int
	active     []liveCandidate
	index      *WindowIndex
	suppressed map[int64]bool
	log        *logger
}

func newCandidateTracker(windowSize, maxActive int, index *WindowIndex, log *logger) *candidateTracker {
	return &candidateTracker{
		windowSize: windowSize,
		maxActive:  maxActive,
		index:      index,
		suppressed: make(map[int64]bool),
		log:        log,
	}
}

// Advance runs one step of the state machine for the record at position
// p with fingerprint fp and verdict v (§4.4). It returns the start
// position of each window a candidate completed on this step -- the
// first of the N positions it marked suppressed (nil if none completed).
func (c *candidateTracker) Advance(p int64, fp Fingerprint, v Verdict) []int64 {
	if v == Bypassed {
		c.resetAt(p)
		return nil
	}

	var completed []int64
	kept := c.active[:0]
	for _, cand := range c.active {
		expected := cand.source.fingerprints[cand.Phase+1]
		if !fpEqual(fp, expected) {
			c.index.Release(cand.source)
			c.log.candidateKilled(cand.Start, cand.Phase)
			continue
		}

		cand.Phase++
		if cand.Phase == c.windowSize-1 {
			start := p - int64(c.windowSize) + 1
			for pos := start; pos <= p; pos++ {
				c.suppressed[pos] = true
			}
			completed = append(completed, start)
			c.index.Release(cand.source)
			c.log.candidateCompleted(cand.Start, start)
			continue
		}

		kept = append(kept, cand)
	}
	c.active = kept

	c.spawn(p, fp)

	return completed
}

// spawn creates a new candidate at phase 0 if a previously seen window
// begins with fp, applying the eviction policy from §4.4 step 3. A
// window size of 1 means phase 0 is already the final phase, so the
// new candidate completes immediately instead of being added to the
// active set.
func (c *candidateTracker) spawn(p int64, fp Fingerprint) {
	source := c.index.SpawnSource(fp)
	if source == nil {
		return
	}

	if c.windowSize == 1 {
		c.suppressed[p] = true
		c.log.candidateCompleted(p, p)
		return
	}

	if len(c.active) >= c.maxActive {
		c.evictOne()
	}
	if len(c.active) >= c.maxActive {
		// Still full after eviction attempt (maxActive == 0 is rejected
		// at construction, so this only happens if eviction found
		// nothing to remove, which cannot occur with maxActive >= 1).
		return
	}

	c.index.Acquire(source)
	c.active = append(c.active, liveCandidate{Candidate: Candidate{Start: p, Phase: 0}, source: source})
	c.log.candidateSpawned(p)
}

// evictOne removes the candidate with the latest start position
// (closest to having just spawned, so it carries the least
// accumulated, hard-to-reproduce information), ties broken by keeping
// the more advanced (larger phase) candidate.
func (c *candidateTracker) evictOne() {
	if len(c.active) == 0 {
		return
	}

	victim := 0
	for i := 1; i < len(c.active); i++ {
		if isLaterEvictionCandidate(c.active[i], c.active[victim]) {
			victim = i
		}
	}

	c.index.Release(c.active[victim].source)
	c.log.candidateEvicted(c.active[victim].Start, c.active[victim].Phase)
	c.active = append(c.active[:victim], c.active[victim+1:]...)
}

// isLaterEvictionCandidate reports whether a is a better eviction
// target than b: later start position wins; ties go to the less
// advanced (smaller phase) candidate.
func isLaterEvictionCandidate(a, b liveCandidate) bool {
	if a.Start != b.Start {
		return a.Start > b.Start
	}
	return a.Phase < b.Phase
}

// resetAt clears any candidate whose very next expected record is at
// position p -- i.e. every live candidate, since a BYPASSED record
// breaks all in-flight matches (the Open Question in §9 resolved as
// "reset").
func (c *candidateTracker) resetAt(p int64) {
	for _, cand := range c.active {
		c.index.Release(cand.source)
		c.log.candidateKilled(cand.Start, cand.Phase)
	}
	c.active = c.active[:0]
}

// OldestStart returns the smallest Start among active candidates and
// true, or 0 and false if there are none.
func (c *candidateTracker) OldestStart() (int64, bool) {
	if len(c.active) == 0 {
		return 0, false
	}
	oldest := c.active[0].Start
	for _, cand := range c.active[1:] {
		if cand.Start < oldest {
			oldest = cand.Start
		}
	}
	return oldest, true
}

// Suppressed reports whether p was marked suppressed and clears the
// entry (the emission controller consumes each position exactly once).
func (c *candidateTracker) Suppressed(p int64) bool {
	if c.suppressed[p] {
		delete(c.suppressed, p)
		return true
	}
	return false
}

func fpEqual(a, b Fingerprint) bool {
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
