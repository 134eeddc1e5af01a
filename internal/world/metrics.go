package world

import "github.com/prometheus/client_golang/prometheus"

// Результаты поиска блока (значения метки result)
const (
	ResultFound        = "found"
	ResultEmpty        = "empty"
	ResultChunkMissing = "chunk_missing"
	ResultError        = "error"
)

// Metrics счётчики обращений к фасаду мира
type Metrics struct {
	lookups *prometheus.CounterVec
}

// NewMetrics создаёт счётчики и регистрирует их в reg (nil: глобальный регистр)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nbtview",
			Subsystem: "world",
			Name:      "block_lookups_total",
			Help:      "Число запросов блока по результату.",
		}, []string{"region", "result"}),
	}
	reg.MustRegister(m.lookups)
	return m
}

func (m *Metrics) observe(region, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(region, result).Inc()
}
