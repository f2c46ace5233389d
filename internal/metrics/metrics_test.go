package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRefresh(t *testing.T) {
	okBefore := testutil.ToFloat64(RefreshTotal.WithLabelValues(StatusOK))
	errBefore := testutil.ToFloat64(RefreshTotal.WithLabelValues(StatusError))
	skippedBefore := testutil.ToFloat64(SkippedRows)

	RecordRefresh(StatusOK, time.Millisecond, 3, 2)
	if got := testutil.ToFloat64(RefreshTotal.WithLabelValues(StatusOK)); got != okBefore+1 {
		t.Fatalf("expected ok counter %v, got %v", okBefore+1, got)
	}
	if got := testutil.ToFloat64(LogRows); got != 3 {
		t.Fatalf("expected 3 rows, got %v", got)
	}
	if got := testutil.ToFloat64(SkippedRows); got != skippedBefore+2 {
		t.Fatalf("expected skipped %v, got %v", skippedBefore+2, got)
	}

	RecordRefresh(StatusError, time.Millisecond, 0, 0)
	if got := testutil.ToFloat64(RefreshTotal.WithLabelValues(StatusError)); got != errBefore+1 {
		t.Fatalf("expected error counter %v, got %v", errBefore+1, got)
	}
	if got := testutil.ToFloat64(LogRows); got != 3 {
		t.Fatalf("failed refresh should keep row gauge, got %v", got)
	}
}
