package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jeffreyurban/uniqseq/internal/cliconfig"
	"github.com/jeffreyurban/uniqseq/internal/dedup"
	"github.com/jeffreyurban/uniqseq/internal/framing"
	"github.com/jeffreyurban/uniqseq/internal/transform"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Run is uniqseq's entire entry point: one command, no subcommand
// dispatch (unlike the teacher's multi-command tk). Returns the
// process exit code. sigCh may be nil, e.g. in tests.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	flags := flag.NewFlagSet("uniqseq", flag.ContinueOnError)
	flags.SetOutput(&strings.Builder{}) // discard pflag's own error printing
	flags.Usage = func() {}

	flagWindowSize := flags.IntP("window-size", "n", 0, "matched-sequence length N")
	flagSkipChars := flags.Int("skip-chars", 0, "prefix bytes stripped before fingerprinting")
	flagInverse := flags.Bool("inverse", false, "invert emission: suppress first occurrences, keep repeats")
	flagTrack := flags.String("track", "", "regex; only matching records are tracked")
	flagBypass := flags.String("bypass", "", "regex; matching records are never suppressed")
	flagHashTransform := flags.String("hash-transform", "", "shell command to derive a fingerprint from skipped bytes")
	flagDelimiter := flags.String("delimiter", "", `record delimiter (default "\n")`)
	flagDelimiterHex := flags.String("delimiter-hex", "", "hex-encoded record delimiter, overrides --delimiter")
	flagByteMode := flags.Bool("byte-mode", false, "treat every byte as its own record")
	flagMaxCandidates := flags.Int("max-candidates", 0, "cap on active in-progress candidates")
	flagMaxTrackedWindows := flags.Int("max-tracked-windows", 0, "cap on remembered first-occurrence windows (0 = unbounded)")
	flagConfig := flags.String("config", "", "explicit JSONC defaults file")
	flagQuiet := flags.Bool("quiet", false, "suppress diagnostic logging")
	flagVersion := flags.Bool("version", false, "print version and exit")
	flagHelp := flags.BoolP("help", "h", false, "show help")

	if err := flags.Parse(args[1:]); err != nil {
		fprintln(stderr, "error:", err)
		printUsage(stderr, flags)
		return 2
	}

	if *flagHelp {
		printUsage(stdout, flags)
		return 0
	}
	if *flagVersion {
		fprintln(stdout, "uniqseq", version)
		return 0
	}

	workDir, err := os.Getwd()
	if err != nil {
		fprintln(stderr, "error:", err)
		return 1
	}

	defaults, err := cliconfig.Load(cliconfig.LoadInput{
		WorkDir:      workDir,
		ExplicitPath: *flagConfig,
		Env:          env,
	})
	if err != nil {
		fprintln(stderr, "error:", err)
		return 2
	}

	cfg := resolveFlags(defaults, flagSet{
		windowSize:        flagWindowSize,
		skipChars:         flagSkipChars,
		inverse:           flagInverse,
		track:             flagTrack,
		bypass:            flagBypass,
		hashTransform:     flagHashTransform,
		delimiter:         flagDelimiter,
		delimiterHex:      flagDelimiterHex,
		byteMode:          flagByteMode,
		maxCandidates:     flagMaxCandidates,
		maxTrackedWindows: flagMaxTrackedWindows,
		quiet:             flagQuiet,
	}, flags)

	if cfg.ByteMode && (cfg.Track != "" || cfg.Bypass != "") {
		fprintln(stderr, "error:", dedup.ErrByteModeWithPattern)
		return 2
	}

	cmdIO := NewIO(stdin, stdout, stderr, cfg.Quiet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var in io.Reader = stdin
	positional := flags.Args()
	if len(positional) > 0 {
		f, err := os.Open(positional[0])
		if err != nil {
			fprintln(stderr, "error:", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	done := make(chan int, 1)
	go func() {
		done <- execute(ctx, cmdIO, in, cfg)
	}()

	select {
	case exitCode := <-done:
		return exitCode
	case <-sigCh:
		fprintln(stderr, "shutting down with 5s timeout...")
		cancel()
	}

	select {
	case <-done:
		fprintln(stderr, "graceful shutdown ok (130)")
		return 130
	case <-time.After(5 * time.Second):
		fprintln(stderr, "graceful shutdown timed out, forced exit (130)")
		return 130
	case <-sigCh:
		fprintln(stderr, "graceful shutdown interrupted, forced exit (130)")
		return 130
	}
}

// runConfig is the fully-resolved set of values driving one run, after
// config-file defaults and CLI flags have been layered.
type runConfig struct {
	WindowSize        int
	SkipChars         int
	Inverse           bool
	Track             string
	Bypass            string
	HashTransform     string
	Delimiter         string
	DelimiterHex      string
	ByteMode          bool
	MaxCandidates     int
	MaxTrackedWindows int
	Quiet             bool
}

type flagSet struct {
	windowSize        *int
	skipChars         *int
	inverse           *bool
	track             *string
	bypass            *string
	hashTransform     *string
	delimiter         *string
	delimiterHex      *string
	byteMode          *bool
	maxCandidates     *int
	maxTrackedWindows *int
	quiet             *bool
}

// resolveFlags starts from the config-file defaults and overlays any
// flag the user actually set on the command line (flags.Changed),
// giving CLI flags the highest precedence per the config file's
// documented layering.
func resolveFlags(d cliconfig.Defaults, f flagSet, flags *flag.FlagSet) runConfig {
	cfg := runConfig{
		WindowSize:        d.WindowSize,
		SkipChars:         d.SkipChars,
		Inverse:           d.Inverse,
		Track:             d.TrackPattern,
		Bypass:            d.BypassPattern,
		HashTransform:     d.HashTransform,
		Delimiter:         d.Delimiter,
		DelimiterHex:      d.DelimiterHex,
		ByteMode:          d.ByteMode,
		MaxCandidates:     d.MaxCandidates,
		MaxTrackedWindows: d.MaxTrackedWindows,
		Quiet:             d.Quiet,
	}

	if cfg.WindowSize == 0 {
		cfg.WindowSize = 1
	}
	// MaxCandidates is left at 0 when unset; dedup.New treats 0 as "use
	// its own default" rather than duplicating that constant here.

	if flags.Changed("window-size") {
		cfg.WindowSize = *f.windowSize
	}
	if flags.Changed("skip-chars") {
		cfg.SkipChars = *f.skipChars
	}
	if flags.Changed("inverse") {
		cfg.Inverse = *f.inverse
	}
	if flags.Changed("track") {
		cfg.Track = *f.track
	}
	if flags.Changed("bypass") {
		cfg.Bypass = *f.bypass
	}
	if flags.Changed("hash-transform") {
		cfg.HashTransform = *f.hashTransform
	}
	if flags.Changed("delimiter") {
		cfg.Delimiter = *f.delimiter
	}
	if flags.Changed("delimiter-hex") {
		cfg.DelimiterHex = *f.delimiterHex
	}
	if flags.Changed("byte-mode") {
		cfg.ByteMode = *f.byteMode
	}
	if flags.Changed("max-candidates") {
		cfg.MaxCandidates = *f.maxCandidates
	}
	if flags.Changed("max-tracked-windows") {
		cfg.MaxTrackedWindows = *f.maxTrackedWindows
	}
	if flags.Changed("quiet") {
		cfg.Quiet = *f.quiet
	}

	return cfg
}

// execute wires framing, the external transform (if any), and the core
// Deduplicator together and drains in to completion. Returns the
// process exit code.
func execute(ctx context.Context, cmdIO *IO, in io.Reader, cfg runConfig) int {
	reader, err := framing.NewReader(in, framing.Config{
		Delimiter:    cfg.Delimiter,
		DelimiterHex: cfg.DelimiterHex,
		ByteMode:     cfg.ByteMode,
	})
	if err != nil {
		fprintln(cmdIO.Err, "error:", err)
		return 2
	}

	writer, err := framing.NewWriter(cmdIO.Out, framing.Config{
		Delimiter:    cfg.Delimiter,
		DelimiterHex: cfg.DelimiterHex,
		ByteMode:     cfg.ByteMode,
	})
	if err != nil {
		fprintln(cmdIO.Err, "error:", err)
		return 2
	}

	var xform dedup.Transform
	if cfg.HashTransform != "" {
		xform = transform.Command(ctx, cfg.HashTransform)
	}

	logger := cmdIO.Logger()
	dd, err := dedup.New(dedup.Config{
		WindowSize:        cfg.WindowSize,
		SkipChars:         cfg.SkipChars,
		Inverse:           cfg.Inverse,
		TrackPattern:      cfg.Track,
		BypassPattern:     cfg.Bypass,
		Transform:         xform,
		MaxCandidates:     cfg.MaxCandidates,
		MaxTrackedWindows: cfg.MaxTrackedWindows,
		Logger:            logger,
	})
	if err != nil {
		var cfgErr *dedup.ConfigurationError
		if errors.As(err, &cfgErr) {
			fprintln(cmdIO.Err, "error:", err)
			return 2
		}
		fprintln(cmdIO.Err, "error:", err)
		return 1
	}

	sink := dedup.SinkFunc(func(record []byte) error {
		return writer.Write(record)
	})

	for {
		if ctx.Err() != nil {
			return 130
		}

		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fprintln(cmdIO.Err, "error:", err)
			return 1
		}

		if err := dd.ProcessRecord(record, sink); err != nil {
			return reportRunError(cmdIO.Err, err)
		}
	}

	if err := dd.Flush(sink); err != nil {
		return reportRunError(cmdIO.Err, err)
	}

	return 0
}

// reportRunError reports a failure from ProcessRecord/Flush. The only
// errors that escape those calls once construction succeeded are
// TransformError and I/O errors from the sink, both exit code 1 per
// the configuration-error-is-exit-2 / everything-else-is-exit-1 split.
func reportRunError(stderr io.Writer, err error) int {
	fprintln(stderr, "error:", err)
	return 1
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, flags *flag.FlagSet) {
	fprintln(w, "uniqseq - streaming multi-line sequence deduplicator")
	fprintln(w)
	fprintln(w, "Usage: uniqseq [flags] [INPUT]")
	fprintln(w)
	fprintln(w, "Flags:")

	var buf strings.Builder
	flags.SetOutput(&buf)
	flags.PrintDefaults()
	fprintln(w, buf.String())
}
