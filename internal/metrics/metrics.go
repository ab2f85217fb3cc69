// Package metrics owns the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "youome"

// Metrics groups the server's collectors. All methods are safe on a nil
// receiver so callers that run without metrics need no checks.
type Metrics struct {
	rpcRequests      *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	expensesRecorded *prometheus.CounterVec
	debtsSettled     prometheus.Counter
	planTransfers    prometheus.Histogram
	planCache        *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		expensesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Expenses recorded by currency.",
		}, []string{"currency"}),
		debtsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debts_settled_total",
			Help:      "Debts flagged settled.",
		}),
		planTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_transfers",
			Help:      "Transfers per computed settlement plan.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		planCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_cache_lookups_total",
			Help:      "Settlement plan cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.expensesRecorded,
		m.debtsSettled,
		m.planTransfers,
		m.planCache,
	)
	return m
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

// ExpenseRecorded counts a recorded expense.
func (m *Metrics) ExpenseRecorded(currency string) {
	if m == nil {
		return
	}
	m.expensesRecorded.WithLabelValues(currency).Inc()
}

// DebtsSettled counts debts flagged settled.
func (m *Metrics) DebtsSettled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.debtsSettled.Add(float64(n))
}

// PlanComputed records the size of a freshly computed plan.
func (m *Metrics) PlanComputed(transfers int) {
	if m == nil {
		return
	}
	m.planTransfers.Observe(float64(transfers))
}

// PlanCacheLookup counts a cache hit or miss.
func (m *Metrics) PlanCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.planCache.WithLabelValues(result).Inc()
}
