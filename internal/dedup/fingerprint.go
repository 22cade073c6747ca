package dedup

// Transform is the external fingerprint transform abstraction the core
// consumes: bytes in, bytes out, or an error. The CLI layer is
// responsible for whatever implements it (e.g. a subprocess); the core
// only ever sees this function type.
type Transform func(b []byte) ([]byte, error)

// Fingerprinter computes fingerprints and filter verdicts from raw
// records (C1). It is pure and stateless: every call depends only on
// its arguments and configuration fixed at construction.
type Fingerprinter struct {
	skip      int
	transform Transform
	track     *pattern
	bypass    *pattern
}

// newFingerprinter builds a Fingerprinter from validated configuration.
func newFingerprinter(skip int, transform Transform, track, bypass *pattern) *Fingerprinter {
	return &Fingerprinter{skip: skip, transform: transform, track: track, bypass: bypass}
}

// Fingerprint computes the fingerprint and verdict for a raw record.
//
//  1. Verdict: track wins over bypass on match; default Tracked.
//  2. Skip: drop the first `skip` bytes (empty string if record is
//     shorter than skip).
//  3. Transform: if configured, feed the skipped bytes through it.
//
// Bypassed records still get a fingerprint computed (skip+transform),
// even though it will never be compared against anything; this keeps
// the pipeline a pure function of the record, independent of verdict.
func (f *Fingerprinter) Fingerprint(raw []byte) (Fingerprint, Verdict, error) {
	verdict := f.verdict(raw)

	skipped := raw
	if f.skip > 0 {
		if f.skip >= len(raw) {
			skipped = nil
		} else {
			skipped = raw[f.skip:]
		}
	}

	if f.transform == nil {
		out := make([]byte, len(skipped))
		copy(out, skipped)
		return Fingerprint(out), verdict, nil
	}

	out, err := f.transform(skipped)
	if err != nil {
		return nil, verdict, &TransformError{Err: err}
	}
	if len(out) == 0 {
		return nil, verdict, &TransformError{Err: ErrNoTransformOutput}
	}
	return Fingerprint(out), verdict, nil
}

// verdict applies the track/bypass filter rule: track wins on match.
func (f *Fingerprinter) verdict(raw []byte) Verdict {
	if f.track != nil {
		if f.track.match(raw) {
			return Tracked
		}
		return Bypassed
	}
	if f.bypass != nil && f.bypass.match(raw) {
		return Bypassed
	}
	return Tracked
}
