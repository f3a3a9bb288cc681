package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/artpar/tiger/adapters/metrics"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

func TestNew(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	if m == nil {
		t.Fatal("NewWithRegistry returned nil")
	}
	if m.RunsTotal == nil || m.RunDuration == nil || m.Diagnostics == nil || m.ItemsIndexed == nil {
		t.Error("metrics not initialized")
	}

	// Independent collectors must not clash.
	_ = metrics.New()
	_ = metrics.New()
}

func TestObserve(t *testing.T) {
	m := metrics.New()

	r := run.Run{
		StartedAt: time.Unix(1700000000, 0),
		Duration:  2 * time.Second,
		Files:     12,
	}
	diags := []report.Diagnostic{
		{Severity: report.Error, Key: report.KeyUnknown},
		{Severity: report.Error, Key: report.KeyUnknown},
		{Severity: report.Warning, Key: report.KeyScopes},
	}
	m.Observe(r, diags)

	if got := testutil.ToFloat64(m.RunsTotal); got != 1 {
		t.Errorf("runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FilesValidated); got != 12 {
		t.Errorf("files_validated_total = %v, want 12", got)
	}
	if got := testutil.ToFloat64(m.Diagnostics.WithLabelValues("error", "unknown")); got != 2 {
		t.Errorf("diagnostics_total{error,unknown} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Diagnostics.WithLabelValues("warning", "scopes")); got != 1 {
		t.Errorf("diagnostics_total{warning,scopes} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LastRun); got != 1700000002 {
		t.Errorf("last_run_timestamp = %v, want 1700000002", got)
	}
}

func TestObserveItems(t *testing.T) {
	m := metrics.New()
	m.ObserveItems(map[item.Kind]int{item.Trait: 7})

	if got := testutil.ToFloat64(m.ItemsIndexed.WithLabelValues("trait")); got != 7 {
		t.Errorf("items_indexed{trait} = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.ItemsIndexed.WithLabelValues("culture")); got != 0 {
		t.Errorf("items_indexed{culture} = %v, want 0", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := metrics.New()
	m.RunsTotal.Inc()

	path := filepath.Join(t.TempDir(), "tiger.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "tiger_runs_total 1") {
		t.Errorf("textfile missing tiger_runs_total:\n%s", data)
	}
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ConfigReloads.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tiger_config_reloads_total 1") {
		t.Error("response missing tiger_config_reloads_total")
	}
}
