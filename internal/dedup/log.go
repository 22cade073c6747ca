package dedup

import "github.com/rs/zerolog"

// logger wraps a zerolog.Logger for the candidate tracker's diagnostic
// events (spawn/kill/complete/evict). It never influences
// emission decisions -- disabling it (the zero value) is always safe
// and is the default so that constructing a Deduplicator has no
// observable side effects unless a caller opts in via Config.Logger.
type logger struct {
	zl     zerolog.Logger
	active bool
}

func noopLogger() *logger { return &logger{} }

func newLogger(zl zerolog.Logger) *logger {
	return &logger{zl: zl, active: true}
}

func (l *logger) candidateSpawned(start int64) {
	if l == nil || !l.active {
		return
	}
	l.zl.Debug().Int64("start", start).Msg("candidate spawned")
}

func (l *logger) candidateKilled(start int64, phase int) {
	if l == nil || !l.active {
		return
	}
	l.zl.Debug().Int64("start", start).Int("phase", phase).Msg("candidate killed")
}

func (l *logger) candidateEvicted(start int64, phase int) {
	if l == nil || !l.active {
		return
	}
	l.zl.Debug().Int64("start", start).Int("phase", phase).Msg("candidate evicted")
}

func (l *logger) candidateCompleted(start, windowStart int64) {
	if l == nil || !l.active {
		return
	}
	l.zl.Debug().Int64("start", start).Int64("window_start", windowStart).Msg("candidate completed")
}
