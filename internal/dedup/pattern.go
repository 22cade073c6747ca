package dedup

import (
	"fmt"

	"github.com/coregx/coregex"
)

// pattern wraps a compiled regular expression used by track/bypass
// filtering. coregex is used instead of the standard library's regexp
// because its API is a drop-in match and it guarantees worst-case
// O(m*n) matching, which keeps per-record fingerprinting cost bounded
// regardless of what pattern an operator supplies.
type pattern struct {
	re   *coregex.Regex
	text string
}

// compilePattern compiles s, returning a ConfigurationError wrapping
// ErrInvalidPattern on failure. An empty pattern compiles to nil,
// meaning "not configured".
func compilePattern(s string) (*pattern, error) {
	if s == "" {
		return nil, nil
	}
	re, err := coregex.Compile(s)
	if err != nil {
		return nil, configErr(fmt.Errorf("%w: %q: %w", ErrInvalidPattern, s, err))
	}
	return &pattern{re: re, text: s}, nil
}

func (p *pattern) match(b []byte) bool {
	return p != nil && p.re.Match(b)
}
