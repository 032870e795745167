package estimator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/haskel/adcfox/internal/errors"
)

const (
	kindEnergy = "energy"
	kindArea   = "area"
)

var (
	probesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adcfox_probes_total",
			Help: "Capability probes by estimate kind and outcome",
		},
		[]string{"kind", "supported"},
	)

	estimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adcfox_estimates_total",
			Help: "Value computations by estimate kind and result code",
		},
		[]string{"kind", "code"},
	)
)

func observeProbe(kind string, acc Accuracy) {
	supported := "false"
	if acc > 0 {
		supported = "true"
	}
	probesTotal.WithLabelValues(kind, supported).Inc()
}

func observeEstimate(kind string, err error) {
	code := "OK"
	if err != nil {
		code = "UNKNOWN"
		if c, ok := errors.CodeOf(err); ok {
			code = string(c)
		}
	}
	estimatesTotal.WithLabelValues(kind, code).Inc()
}
