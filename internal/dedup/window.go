package dedup

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// windowRecord is the first-occurrence bookkeeping for one seen window:
// its full fingerprint tuple (so C4 can look up "the (k+1)-th
// fingerprint" without a separate global position log -- option (a)
// from the design notes) and the position it was first emitted at.
type windowRecord struct {
	key          WindowKey
	fingerprints []Fingerprint
	firstEmit    int64
	refs         int // candidates currently tracking this window
}

// WindowIndex is the seen-window index (C3): a permanent map from
// WindowKey to first-emit position, plus a first-fingerprint index so
// the candidate tracker can discover spawn points in O(1).
//
// When maxTracked > 0, entries with zero outstanding candidate
// references are bounded by an LRU, mirroring the two-tier
// unbounded-correctness/bounded-memory cache shape used for response
// caching in the allaspectsdev-tokenman example repo. The default
// (maxTracked == 0) keeps every window for the life of the run, per
// invariant I4.
type WindowIndex struct {
	records     map[WindowKey]*windowRecord
	byFirstFP   map[string][]*windowRecord
	maxTracked  int
	recency     *lru.Cache[WindowKey, struct{}]
}

// newWindowIndex creates a WindowIndex. maxTracked <= 0 means unbounded.
func newWindowIndex(maxTracked int) *WindowIndex {
	idx := &WindowIndex{
		records:    make(map[WindowKey]*windowRecord),
		byFirstFP:  make(map[string][]*windowRecord),
		maxTracked: maxTracked,
	}
	if maxTracked > 0 {
		// Size+1: RemoveOldest is invoked manually after insert, so the
		// backing cache never needs to evict on Add itself.
		c, err := lru.New[WindowKey, struct{}](maxTracked + 1)
		if err != nil {
			// Only returns an error for size <= 0, already excluded above.
			panic(err)
		}
		idx.recency = c
	}
	return idx
}

// Register records a newly emitted window's fingerprint tuple under its
// WindowKey, unless that key is already known (first occurrence wins).
// No-op if fps is empty.
func (w *WindowIndex) Register(fps []Fingerprint, firstEmit int64) {
	key := NewWindowKey(fps)
	if _, ok := w.records[key]; ok {
		w.touch(key)
		return
	}

	rec := &windowRecord{key: key, fingerprints: append([]Fingerprint(nil), fps...), firstEmit: firstEmit}
	w.records[key] = rec

	firstFP := string(fps[0])
	w.byFirstFP[firstFP] = append(w.byFirstFP[firstFP], rec)

	w.touch(key)
	w.evictIfNeeded()
}

// SpawnSource returns the windowRecord a new candidate at position p
// with first fingerprint fp should track, or nil if no seen window
// starts with fp. When several seen windows share a first fingerprint,
// the earliest-registered one is chosen: it is the canonical "first
// occurrence" and the one most likely to still be relevant.
func (w *WindowIndex) SpawnSource(fp Fingerprint) *windowRecord {
	bucket := w.byFirstFP[string(fp)]
	if len(bucket) == 0 {
		return nil
	}
	rec := bucket[0]
	w.touch(rec.key)
	return rec
}

// Acquire increments a window record's reference count, protecting it
// from LRU eviction while at least one live candidate depends on it.
func (w *WindowIndex) Acquire(rec *windowRecord) {
	rec.refs++
}

// Release decrements a window record's reference count. Once it drops
// to zero the record again becomes eligible for LRU eviction.
func (w *WindowIndex) Release(rec *windowRecord) {
	rec.refs--
	if rec.refs <= 0 {
		rec.refs = 0
		w.evictIfNeeded()
	}
}

// Len returns the number of distinct windows currently tracked.
func (w *WindowIndex) Len() int {
	return len(w.records)
}

func (w *WindowIndex) touch(key WindowKey) {
	if w.recency != nil {
		w.recency.Add(key, struct{}{})
	}
}

// evictIfNeeded removes least-recently-touched, unreferenced windows
// until the tracked count is within bound. Referenced windows are
// skipped and re-inserted so their recency position is preserved; if
// every excess window is referenced, the index is briefly allowed to
// exceed maxTracked rather than break a live candidate.
func (w *WindowIndex) evictIfNeeded() {
	if w.recency == nil {
		return
	}

	var spared []WindowKey
	for len(w.records) > w.maxTracked {
		key, _, ok := w.recency.RemoveOldest()
		if !ok {
			break
		}

		rec, known := w.records[key]
		if !known {
			continue
		}
		if rec.refs > 0 {
			spared = append(spared, key)
			continue
		}

		delete(w.records, key)
		w.removeFromFirstFPIndex(rec)
	}

	for _, key := range spared {
		w.recency.Add(key, struct{}{})
	}
}

func (w *WindowIndex) removeFromFirstFPIndex(rec *windowRecord) {
	if len(rec.fingerprints) == 0 {
		return
	}
	firstFP := string(rec.fingerprints[0])
	bucket := w.byFirstFP[firstFP]
	for i, r := range bucket {
		if r == rec {
			w.byFirstFP[firstFP] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(w.byFirstFP[firstFP]) == 0 {
		delete(w.byFirstFP, firstFP)
	}
}
