package httpwire

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// observability.go is the ambient stack spec.md itself is silent on:
// structured logging and metrics, wired the way the rest of the
// retrieved corpus wires them (zap for logging, prometheus for
// counters/histograms) rather than left to the standard library. Both
// are optional and stay off the hot byte-scanning path; they only run
// at message and error boundaries.

// zapLogger is a type alias so ParserOption signatures in parser.go
// don't need to import zap directly.
type zapLogger = zap.Logger

// Metrics holds the optional prometheus instrumentation a Parser
// reports through when constructed with WithMetrics. Create one
// Metrics per process (or per Registerer) and share it across every
// Parser; all of its operations are plain counter/histogram
// increments and are safe for concurrent use even though a Parser
// itself is not.
type Metrics struct {
	messagesTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	chunkBytes    prometheus.Histogram
}

// NewMetrics builds and registers a Metrics against reg. Pass
// prometheus.DefaultRegisterer to publish on the default /metrics
// handler, or a fresh prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "httpwire_messages_total",
			Help: "HTTP messages fully parsed, by mode.",
		}, []string{"mode"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "httpwire_errors_total",
			Help: "Parse failures, by error kind.",
		}, []string{"kind"}),
		chunkBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "httpwire_chunk_bytes",
			Help:    "Size distribution of body fragments delivered to OnChunk.",
			Buckets: prometheus.ExponentialBuckets(16, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.messagesTotal, m.errorsTotal, m.chunkBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *Parser) observeMessage() {
	if p.metrics != nil {
		p.metrics.messagesTotal.WithLabelValues(p.mode.String()).Inc()
	}
	if p.logger != nil {
		p.logger.Debug("message complete",
			zap.String("parser_id", p.ID().String()),
			zap.String("mode", p.mode.String()),
			zap.String("framing", p.framingSt.framing.Kind.String()),
		)
	}
}

func (p *Parser) observeChunk(n int) {
	if p.metrics != nil {
		p.metrics.chunkBytes.Observe(float64(n))
	}
}

func (p *Parser) observeError(err error) {
	if p.metrics != nil {
		var werr *Error
		if errors.As(err, &werr) {
			p.metrics.errorsTotal.WithLabelValues(werr.Kind.String()).Inc()
		} else {
			p.metrics.errorsTotal.WithLabelValues("unknown").Inc()
		}
	}
	if p.logger != nil {
		p.logger.Warn("parse error",
			zap.String("parser_id", p.ID().String()),
			zap.Error(err),
		)
	}
}
