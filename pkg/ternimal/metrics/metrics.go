// ABOUTME: Prometheus observer for multiplexer write events
// ABOUTME: Counts writes and bytes per channel and outcome, and tracks the shared queue length

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Arnesfield/ternimal/pkg/ternimal/output"
)

// Observer implements output.Observer on top of Prometheus collectors.
type Observer struct {
	writes *prometheus.CounterVec
	bytes  *prometheus.CounterVec
	queued prometheus.Gauge
}

var _ output.Observer = (*Observer)(nil)

// New creates an Observer and registers its collectors with reg. A nil
// reg skips registration.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ternimal_writes_total",
				Help: "Writes handled by the output multiplexer, by channel and outcome",
			},
			[]string{"channel", "kind"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ternimal_write_bytes_total",
				Help: "Payload bytes handled by the output multiplexer, by channel and outcome",
			},
			[]string{"channel", "kind"},
		),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ternimal_queued_writes",
			Help: "Writes waiting in the paused output queue",
		}),
	}
	if reg == nil {
		return o, nil
	}
	for _, c := range []prometheus.Collector{o.writes, o.bytes, o.queued} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Observe records e.
func (o *Observer) Observe(e output.Event) {
	ch, kind := string(e.Channel), e.Kind.String()
	o.writes.WithLabelValues(ch, kind).Inc()
	o.bytes.WithLabelValues(ch, kind).Add(float64(e.Bytes))
	o.queued.Set(float64(e.Queued))
}
