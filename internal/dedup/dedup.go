package dedup

import "github.com/rs/zerolog"

// Config holds the constructor parameters for a Deduplicator (§6).
type Config struct {
	// WindowSize is N, the matched-sequence length. Must be >= 1.
	WindowSize int

	// SkipChars is the number of prefix bytes stripped before
	// fingerprinting. Must be >= 0.
	SkipChars int

	// Inverse flips normal vs inverse emission (§4.5).
	Inverse bool

	// TrackPattern, if non-empty, marks matching records TRACKED and
	// all others BYPASSED.
	TrackPattern string

	// BypassPattern, if non-empty, marks matching records BYPASSED.
	// Track wins over bypass when both are configured and a record
	// matches both.
	BypassPattern string

	// Transform is the external fingerprint transform, or nil.
	Transform Transform

	// MaxCandidates is K, the cap on active candidates. Must be >= 1.
	// Zero selects the default of 30.
	MaxCandidates int

	// MaxTrackedWindows bounds the seen-window index with an LRU once
	// positive; zero (the default) keeps every seen window for the
	// life of the run, per invariant I4.
	MaxTrackedWindows int

	// Logger, if set, receives candidate-tracker diagnostic events at
	// debug level. Diagnostics never affect emission decisions.
	Logger *zerolog.Logger
}

const defaultMaxCandidates = 30

// Deduplicator drives the fingerprint pipeline, positional FIFO,
// seen-window index, candidate tracker, and emission controller (C1-C5)
// for one single-threaded, synchronous run (C6).
type Deduplicator struct {
	windowSize int

	fp       *Fingerprinter
	queue    *fifo
	windows  *WindowIndex
	tracker  *candidateTracker
	emit     *emitter

	nextPos int64
}

// New validates cfg and constructs a Deduplicator. All errors are
// *ConfigurationError, reported before any record is consumed.
func New(cfg Config) (*Deduplicator, error) {
	if cfg.WindowSize < 1 {
		return nil, configErr(ErrInvalidWindowSize)
	}
	if cfg.SkipChars < 0 {
		return nil, configErr(ErrInvalidSkipChars)
	}

	maxCandidates := cfg.MaxCandidates
	if maxCandidates == 0 {
		maxCandidates = defaultMaxCandidates
	}
	if maxCandidates < 1 {
		return nil, configErr(ErrInvalidMaxCandidates)
	}

	track, err := compilePattern(cfg.TrackPattern)
	if err != nil {
		return nil, err
	}
	bypass, err := compilePattern(cfg.BypassPattern)
	if err != nil {
		return nil, err
	}

	log := noopLogger()
	if cfg.Logger != nil {
		log = newLogger(*cfg.Logger)
	}

	windows := newWindowIndex(cfg.MaxTrackedWindows)
	tracker := newCandidateTracker(cfg.WindowSize, maxCandidates, windows, log)
	queue := newFIFO(cfg.WindowSize)

	d := &Deduplicator{
		windowSize: cfg.WindowSize,
		fp:         newFingerprinter(cfg.SkipChars, cfg.Transform, track, bypass),
		queue:      queue,
		windows:    windows,
		tracker:    tracker,
		emit:       newEmitter(cfg.WindowSize, cfg.Inverse, queue, tracker, windows),
	}
	return d, nil
}

// ProcessRecord consumes one raw record (delimiter already stripped by
// the caller) and writes any now-final records to sink, in position
// order.
//
// This record's own arrival is what satisfies the lookahead for older
// buffered records, so they are drained -- and any first-occurrence
// window they complete is registered -- before this record's
// fingerprint is checked against the seen-window index. Reversing that
// order would make a window invisible to the very record that should
// spawn a candidate against it.
func (d *Deduplicator) ProcessRecord(record []byte, sink Sink) error {
	pos := d.nextPos
	d.nextPos++

	fp, verdict, err := d.fp.Fingerprint(record)
	if err != nil {
		return err
	}

	if err := d.emit.DrainFinal(pos, false, sink); err != nil {
		return err
	}

	d.tracker.Advance(pos, fp, verdict)
	d.queue.Push(PendingEntry{Position: pos, Raw: record, Fingerprint: fp, Verdict: verdict})

	return nil
}

// Flush drains every remaining buffered record under the same rules,
// abandoning (not suppressing) any candidate that never completed.
func (d *Deduplicator) Flush(sink Sink) error {
	return d.emit.DrainFinal(d.nextPos-1, true, sink)
}
