// Package metrics exports the governance state as prometheus gauges.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/x/egl/types"
)

const namespace = "egl"

// GovernanceMetrics holds the collectors updated after every tally.
type GovernanceMetrics struct {
	gasLimit      *prometheus.GaugeVec
	epoch         prometheus.Gauge
	circulation   prometheus.Gauge
	participation prometheus.Gauge
	tallies       *prometheus.CounterVec
}

// NewGovernanceMetrics creates the collectors and registers them with reg.
func NewGovernanceMetrics(reg prometheus.Registerer) (*GovernanceMetrics, error) {
	m := &GovernanceMetrics{
		gasLimit: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gas_limit",
				Help:      "Governed gas limit values",
			},
			[]string{"kind"},
		),
		epoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_epoch",
			Help:      "Epoch currently open for voting",
		}),
		circulation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tokens_in_circulation",
			Help:      "Tokens in circulation in whole tokens",
		}),
		participation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vote_percentage",
			Help:      "Share of circulation that voted in the last tallied epoch",
		}),
		tallies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tallies_total",
				Help:      "Tallies by outcome",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.gasLimit, m.epoch, m.circulation, m.participation, m.tallies} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveState updates the gauges from the global state.
func (m *GovernanceMetrics) ObserveState(state types.GlobalState) {
	m.gasLimit.WithLabelValues("desired").Set(float64(state.DesiredEgl))
	m.gasLimit.WithLabelValues("baseline").Set(float64(state.BaselineEgl))
	m.gasLimit.WithLabelValues("initial").Set(float64(state.InitialEgl))
	m.epoch.Set(float64(state.CurrentEpoch))
	m.circulation.Set(toFloat(appconsts.ToWholeTokens(state.TokensInCirculation)))
}

// ObserveTally records a tally outcome and the state it produced.
func (m *GovernanceMetrics) ObserveTally(res types.TallyResult, state types.GlobalState) {
	outcome := "failed"
	switch {
	case res.ThresholdMet:
		outcome = "met"
	case res.InGracePeriod:
		outcome = "grace"
	}
	m.tallies.WithLabelValues(outcome).Inc()
	m.participation.Set(toFloat(res.ActualVotePercentage))
	m.ObserveState(state)
}

func toFloat(dec math.LegacyDec) float64 {
	f, err := dec.Float64()
	if err != nil {
		return 0
	}
	return f
}

// Serve exposes the gatherer on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
