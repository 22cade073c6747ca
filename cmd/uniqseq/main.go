// Command uniqseq is a streaming multi-line sequence deduplicator: it
// reads records from stdin (or a file argument), suppresses records
// that repeat a previously seen N-record window, and writes the
// surviving records to stdout in their original order.
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jeffreyurban/uniqseq/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env, sigCh)

	os.Exit(exitCode)
}
