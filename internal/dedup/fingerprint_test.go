package dedup

import (
	"errors"
	"testing"
)

// Contract: track wins over bypass when a record matches both patterns.
func Test_Fingerprinter_VerdictTrackWinsOverBypass_When_BothMatch(t *testing.T) {
	t.Parallel()

	track, _ := compilePattern("X")
	bypass, _ := compilePattern("X")
	f := newFingerprinter(0, nil, track, bypass)

	_, v, err := f.Fingerprint([]byte("Xray"))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if v != Tracked {
		t.Fatalf("verdict = %v, want Tracked", v)
	}
}

// Contract: skip strips a fixed prefix, treating a too-short record as
// an empty remainder rather than erroring.
func Test_Fingerprinter_StripsPrefix_When_SkipConfigured(t *testing.T) {
	t.Parallel()

	f := newFingerprinter(4, nil, nil, nil)

	fp, _, err := f.Fingerprint([]byte("2026 hello"))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if string(fp) != " hello" {
		t.Fatalf("fingerprint = %q, want %q", fp, " hello")
	}

	fp, _, err = f.Fingerprint([]byte("ab"))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if len(fp) != 0 {
		t.Fatalf("fingerprint = %q, want empty", fp)
	}
}

// Contract: a transform error is wrapped as a *TransformError the caller
// can unwrap back to the underlying cause.
func Test_Fingerprinter_ReturnsTransformError_When_TransformFails(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	f := newFingerprinter(0, func(b []byte) ([]byte, error) {
		return nil, cause
	}, nil, nil)

	_, _, err := f.Fingerprint([]byte("x"))
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransformError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to reach cause, got %v", err)
	}
}

// Contract: a transform that produces no output is itself a transform
// error (ErrNoTransformOutput), not a silently empty fingerprint.
func Test_Fingerprinter_ReturnsTransformError_When_OutputEmpty(t *testing.T) {
	t.Parallel()

	f := newFingerprinter(0, func(b []byte) ([]byte, error) {
		return nil, nil
	}, nil, nil)

	_, _, err := f.Fingerprint([]byte("x"))
	if !errors.Is(err, ErrNoTransformOutput) {
		t.Fatalf("expected ErrNoTransformOutput, got %v", err)
	}
}
