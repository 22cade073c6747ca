package transform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jeffreyurban/uniqseq/internal/transform"
)

// Contract: stdout is captured verbatim as the transform's output.
func Test_Command_ReturnsStdout_When_CommandSucceeds(t *testing.T) {
	t.Parallel()

	fn := transform.Command(context.Background(), "tr 'a-z' 'A-Z'")
	out, err := fn([]byte("hello"))
	if err != nil {
		t.Fatalf("fn: %v", err)
	}
	if string(out) != "HELLO" {
		t.Fatalf("got %q", out)
	}
}

// Contract: a nonzero exit is reported as ErrCommandFailed with stderr
// captured for diagnostics.
func Test_Command_ReturnsError_When_CommandExitsNonzero(t *testing.T) {
	t.Parallel()

	fn := transform.Command(context.Background(), "echo bad 1>&2; exit 3")
	_, err := fn([]byte("x"))
	if !errors.Is(err, transform.ErrCommandFailed) {
		t.Fatalf("got %v", err)
	}
}
