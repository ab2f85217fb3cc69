package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRPC("/youome.v1.LedgerService/RecordExpense", "ok", 0.01)
	m.ObserveRPC("/youome.v1.LedgerService/RecordExpense", "ok", 0.02)
	m.ExpenseRecorded("USD")
	m.DebtsSettled(3)
	m.DebtsSettled(0)
	m.PlanCacheLookup(true)
	m.PlanCacheLookup(false)
	m.PlanComputed(2)

	if got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/youome.v1.LedgerService/RecordExpense", "ok")); got != 2 {
		t.Errorf("rpc_requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.expensesRecorded.WithLabelValues("USD")); got != 1 {
		t.Errorf("expenses_recorded_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.debtsSettled); got != 3 {
		t.Errorf("debts_settled_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.planCache.WithLabelValues("hit")); got != 1 {
		t.Errorf("plan cache hits = %v, want 1", got)
	}

	count, err := testutil.GatherAndCount(reg, "youome_plan_transfers")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 plan_transfers series, got %d", count)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("p", "ok", 1)
	m.ExpenseRecorded("USD")
	m.DebtsSettled(1)
	m.PlanComputed(1)
	m.PlanCacheLookup(true)
}
