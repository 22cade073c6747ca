// Command uniqseq-bench drives internal/dedup over synthetic large
// inputs to characterize the core's O(N+K) time bound (N = window
// size, K = max candidates), the way the teacher's cmd/tk-bench
// characterizes tk's ls/mutation performance -- adapted from
// hyperfine-orchestrated subprocess runs to direct in-process timing,
// since the thing under test here is a library, not a binary with
// filesystem state to churn.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/jeffreyurban/uniqseq/internal/dedup"
	"github.com/jeffreyurban/uniqseq/internal/testutil"
)

// Config holds all benchmark configuration.
type Config struct {
	Counts      []int
	WindowSizes []int
	Alphabet    int
	RepeatRate  int
	MaxCand     int
}

// Result holds one benchmark's outcome.
type Result struct {
	Count      int
	WindowSize int
	Elapsed    time.Duration
	AllocBytes uint64
}

func main() {
	cfg := Config{}

	countsStr := flag.String("counts", "10000,1000000", "comma-separated record counts to benchmark")
	windowsStr := flag.String("window-sizes", "1,4,16", "comma-separated window sizes to benchmark")
	flag.IntVar(&cfg.Alphabet, "alphabet", 64, "distinct record alphabet size for the synthetic stream")
	flag.IntVar(&cfg.RepeatRate, "repeat-rate", 30, "percent chance (0-100) that a record replays an earlier fingerprint")
	flag.IntVar(&cfg.MaxCand, "max-candidates", 30, "candidate tracker capacity (K)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "Usage: uniqseq-bench [flags]\n\n")
		fmt.Fprint(os.Stderr, "Benchmarks internal/dedup over synthetic streams of varying size and window size.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg.Counts = parseInts(*countsStr)
	cfg.WindowSizes = parseInts(*windowsStr)

	if len(cfg.Counts) == 0 || len(cfg.WindowSizes) == 0 {
		fmt.Fprintln(os.Stderr, "no counts or window sizes specified")
		os.Exit(1)
	}

	var results []Result
	for _, n := range cfg.WindowSizes {
		for _, count := range cfg.Counts {
			res, err := runOne(cfg, count, n)
			if err != nil {
				fmt.Fprintf(os.Stderr, "benchmark failed (n=%d, count=%d): %v\n", n, count, err)
				os.Exit(1)
			}
			results = append(results, res)
		}
	}

	printReport(results)
}

func runOne(cfg Config, count, windowSize int) (Result, error) {
	stream := testutil.GenerateStream(seedBytes(count, windowSize), count, testutil.StreamGenConfig{
		AlphabetSize: cfg.Alphabet,
		RepeatRate:   cfg.RepeatRate,
		BypassRate:   0,
	})

	dd, err := dedup.New(dedup.Config{
		WindowSize:    windowSize,
		MaxCandidates: cfg.MaxCand,
	})
	if err != nil {
		return Result{}, err
	}

	sink := dedup.SinkFunc(func([]byte) error { return nil })

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	for _, rec := range stream {
		if err := dd.ProcessRecord([]byte(rec.FP), sink); err != nil {
			return Result{}, err
		}
	}
	if err := dd.Flush(sink); err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)

	return Result{
		Count:      count,
		WindowSize: windowSize,
		Elapsed:    elapsed,
		AllocBytes: after.TotalAlloc - before.TotalAlloc,
	}, nil
}

// seedBytes derives a deterministic seed sequence from the run
// parameters so repeated invocations with the same flags reproduce the
// same synthetic stream.
func seedBytes(count, windowSize int) []byte {
	seed := fmt.Sprintf("uniqseq-bench-%d-%d", count, windowSize)
	b := make([]byte, 4096)
	for i := range b {
		b[i] = seed[i%len(seed)]
	}
	return b
}

func parseInts(s string) []int {
	var out []int
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid integer %q: %v\n", part, err)
			os.Exit(1)
		}
		out = append(out, n)
	}
	return out
}

func printReport(results []Result) {
	fmt.Printf("%-12s %-12s %-14s %-12s %-14s\n", "window", "records", "elapsed", "records/s", "alloc/record")
	for _, r := range results {
		recsPerSec := float64(r.Count) / r.Elapsed.Seconds()
		allocPerRec := float64(r.AllocBytes) / float64(r.Count)
		fmt.Printf("%-12d %-12d %-14s %-12.0f %-14.1f\n", r.WindowSize, r.Count, r.Elapsed, recsPerSec, allocPerRec)
	}
}
