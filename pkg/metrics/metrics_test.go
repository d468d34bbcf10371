package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusCollector(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()

	c.RecordOperation(ctx, "insert", "success", 12)
	c.RecordOperation(ctx, "insert", "success", 8)
	c.RecordOperation(ctx, "enrich_evidence", "error", 1500)
	c.RecordStage(ctx, "enrich_evidence", "call", 1400)
	c.RecordError(ctx, "enrich_evidence", "rate_limit")
	c.SetRecordCount(ctx, "evidence", 3)
	c.SetRecordCount(ctx, "evidence", 2)

	if got := testutil.ToFloat64(c.operationsTotal.WithLabelValues("insert", "success")); got != 2 {
		t.Errorf("insert success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.operationsTotal.WithLabelValues("enrich_evidence", "error")); got != 1 {
		t.Errorf("enrich error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.errorsTotal.WithLabelValues("enrich_evidence", "rate_limit")); got != 1 {
		t.Errorf("rate_limit error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.recordCount.WithLabelValues("evidence")); got != 2 {
		t.Errorf("evidence gauge = %v, want 2 (gauge tracks latest value)", got)
	}
}

func TestPrometheusCollector_RegistryExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.RecordOperation(context.Background(), "insert", "success", 5)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	if !names["casefile_operations_total"] || !names["casefile_operation_duration_seconds"] {
		t.Errorf("expected casefile metric families, got %v", names)
	}
}

func TestNoopCollector(t *testing.T) {
	ctx := context.Background()
	n := NewNoopCollector()
	n.RecordOperation(ctx, "insert", "success", 1)
	n.RecordStage(ctx, "insert", "call", 1)
	n.RecordError(ctx, "insert", "storage")
	n.SetRecordCount(ctx, "evidence", 1)
}
