package exposure

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
)

// Metered counts records passed to (and rejected by) the next Logger.
type Metered struct {
	next   Logger
	logged *prometheus.CounterVec
	failed *prometheus.CounterVec
}

// NewMetered registers the counters on reg and wraps next.
func NewMetered(next Logger, reg prometheus.Registerer) (*Metered, error) {
	m := &Metered{
		next: next,
		logged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ashsplit",
			Subsystem: "exposure",
			Name:      "records_total",
			Help:      "Records accepted by the exposure logger.",
		}, []string{"experiment", "event"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ashsplit",
			Subsystem: "exposure",
			Name:      "failures_total",
			Help:      "Records the exposure logger failed to accept.",
		}, []string{"experiment", "event"}),
	}
	for _, c := range []prometheus.Collector{m.logged, m.failed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register exposure metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metered) Log(rec Record) error {
	if err := m.next.Log(rec); err != nil {
		m.failed.WithLabelValues(rec.Experiment, rec.Event).Inc()
		return err
	}
	m.logged.WithLabelValues(rec.Experiment, rec.Event).Inc()
	return nil
}
