package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func scrape(t *testing.T, gatherer prometheus.Gatherer) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(gatherer).ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestCollector_RecordsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.RecordWebhookVerified()
	c.RecordWebhookRejected("missing_headers")
	c.RecordWebhookRejected("missing_headers")
	c.RecordUserSync("ok")
	c.RecordGenerationSuccess()
	c.RecordGenerationFailure("session")
	c.RecordCompletionLatency("workout", 1200*time.Millisecond)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)

	out := scrape(t, registry)

	checks := []string{
		`fitforge_webhook_verified_total 1`,
		`fitforge_webhook_rejected_total{reason="missing_headers"} 2`,
		`fitforge_user_sync_total{result="ok"} 1`,
		`fitforge_generation_success_total 1`,
		`fitforge_generation_fail_total{stage="session"} 1`,
		`fitforge_completion_latency_seconds_count{kind="workout"} 1`,
		`fitforge_http_status_total{status_code="200"} 1`,
		`fitforge_http_status_total{status_code="401"} 1`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestCollector_RegistersOnGivenRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewCollector(registry)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	// カウンターは記録されるまで出力されないが、登録自体は成功している
	_ = families

	// 同じレジストリへの二重登録はpanicする
	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	NewCollector(registry)
}
