package metrics

import (
	"errors"
	"fmt"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smsman"

const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeRemoteError    = "remote_error"
	OutcomeError          = "error"

	PollWaiting = "waiting"
	PollCode    = "code"
	PollFailed  = "failed"
	PollSkipped = "skipped"
	PollNoToken = "no_token"
)

// Metrics is safe to use through a nil pointer; every observation becomes a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	pollTicks       *prometheus.CounterVec
	activeRentals   prometheus.Gauge
	historyRecords  prometheus.Gauge
	codesReceived   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		gatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "SMS-man API calls by endpoint and outcome.",
		}, []string{"op", "outcome"}),
		gatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "SMS-man API call latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		pollTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ticks_total",
			Help:      "SMS polling ticks by outcome.",
		}, []string{"outcome"}),
		activeRentals: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rentals",
			Help:      "Rentals currently tracked in this session.",
		}),
		historyRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_records",
			Help:      "Records held in the history ledger.",
		}),
		codesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_received_total",
			Help:      "Verification codes delivered to rentals.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveGateway(op string, err error) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(op, Outcome(err)).Inc()
}

func (m *Metrics) ObservePoll(outcome string) {
	if m == nil {
		return
	}
	m.pollTicks.WithLabelValues(outcome).Inc()
	if outcome == PollCode {
		m.codesReceived.Inc()
	}
}

// ObserveState is meant to be registered as a store listener.
func (m *Metrics) ObserveState(_, next domain.State) {
	if m == nil {
		return
	}
	m.activeRentals.Set(float64(len(next.Rentals)))
	m.historyRecords.Set(float64(len(next.History)))
}

func (m *Metrics) timer(op string) *prometheus.Timer {
	if m == nil {
		return prometheus.NewTimer(prometheus.ObserverFunc(func(float64) {}))
	}
	return prometheus.NewTimer(m.gatewayDuration.WithLabelValues(op))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var remote *domain.RemoteError
	switch {
	case errors.As(err, &remote):
		return OutcomeRemoteError
	case domain.IsTransportError(err):
		return OutcomeTransportError
	default:
		return OutcomeError
	}
}
