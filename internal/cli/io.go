package cli

import (
	"io"

	"github.com/rs/zerolog"
)

// IO bundles a run's input/output streams and its diagnostic logger,
// mirroring the teacher's IO wrapper but built around a single
// streaming command instead of warning collection for a batch of
// subcommands: uniqseq has exactly one thing to report per run, a
// fatal error, so there is no warnings buffer to flush.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	log zerolog.Logger
}

// NewIO builds an IO with a zerolog.Logger writing to errOut. Setting
// quiet raises the level past Debug so candidate-tracker diagnostics
// (§9 of the design notes) are suppressed without touching the core's
// emission decisions.
func NewIO(in io.Reader, out, errOut io.Writer, quiet bool) *IO {
	level := zerolog.DebugLevel
	if quiet {
		level = zerolog.Disabled
	}

	log := zerolog.New(errOut).Level(level).With().Timestamp().Logger()

	return &IO{In: in, Out: out, Err: errOut, log: log}
}

// Logger returns the diagnostic logger for this run.
func (o *IO) Logger() *zerolog.Logger {
	return &o.log
}
