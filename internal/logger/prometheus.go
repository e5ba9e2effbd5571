package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// LevelCounter is a zerolog hook counting log lines per level on
// clmk_log_statements_total.
type LevelCounter struct {
	vec *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h LevelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || h.vec == nil {
		return
	}

	h.vec.WithLabelValues(level.String()).Inc()
}

// NewLevelCounter returns the hook. The vector is registered on the first
// call with service as constant label, later calls share it.
func NewLevelCounter(service string) LevelCounter {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "clmk_log_statements_total",
				Help:        "Log lines written, by level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return LevelCounter{vec: statements}
}
