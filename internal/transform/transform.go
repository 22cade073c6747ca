// Package transform implements the external fingerprint transform: a
// shell command invoked once per record, bytes in on stdin, bytes out
// on stdout. Grounded on the teacher's editor-subprocess pattern
// (os/exec.CommandContext, explicit stdio wiring), adapted from
// "launch an interactive editor and wait" to "pipe bytes through a
// filter and capture its output".
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrCommandFailed reports a nonzero exit from the transform command.
var ErrCommandFailed = errors.New("transform command failed")

// Command builds a dedup.Transform-compatible function that runs cmd
// through "sh -c" for every record. ctx bounds each invocation so a
// stuck transform can be killed by the CLI's shutdown path instead of
// hanging the whole run.
func Command(ctx context.Context, cmd string) func([]byte) ([]byte, error) {
	return func(in []byte) ([]byte, error) {
		c := exec.CommandContext(ctx, "sh", "-c", cmd)
		c.Stdin = bytes.NewReader(in)

		var stdout, stderr bytes.Buffer
		c.Stdout = &stdout
		c.Stderr = &stderr

		if err := c.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return nil, fmt.Errorf("%w: %q: exit %d: %s", ErrCommandFailed, cmd, exitErr.ExitCode(), stderr.String())
			}
			return nil, fmt.Errorf("%w: %q: %w", ErrCommandFailed, cmd, err)
		}

		return stdout.Bytes(), nil
	}
}
