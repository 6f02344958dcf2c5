// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	webhookVerified   prometheus.Counter
	webhookRejected   *prometheus.CounterVec
	userSyncTotal     *prometheus.CounterVec
	generationSuccess prometheus.Counter
	generationFail    *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		webhookVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitforge_webhook_verified_total",
			Help: "署名検証に成功したWebhookの合計数",
		}),
		webhookRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitforge_webhook_rejected_total",
			Help: "拒否されたWebhookの合計数（理由別）",
		}, []string{"reason"}),
		userSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitforge_user_sync_total",
			Help: "ユーザー同期操作の合計数（結果別）",
		}, []string{"result"}),
		generationSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitforge_generation_success_total",
			Help: "プラン生成成功の合計数",
		}),
		generationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitforge_generation_fail_total",
			Help: "プラン生成失敗の合計数（失敗ステップ別）",
		}, []string{"stage"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitforge_completion_latency_seconds",
			Help:    "AI補完のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitforge_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.webhookVerified,
		c.webhookRejected,
		c.userSyncTotal,
		c.generationSuccess,
		c.generationFail,
		c.completionLatency,
		c.httpStatus,
	)

	return c
}

// RecordWebhookVerified は署名検証成功を記録する。
func (c *Collector) RecordWebhookVerified() {
	c.webhookVerified.Inc()
}

// RecordWebhookRejected はWebhook拒否を理由付きで記録する。
func (c *Collector) RecordWebhookRejected(reason string) {
	c.webhookRejected.WithLabelValues(reason).Inc()
}

// RecordUserSync はユーザー同期の結果を記録する。
func (c *Collector) RecordUserSync(result string) {
	c.userSyncTotal.WithLabelValues(result).Inc()
}

// RecordGenerationSuccess はプラン生成成功を記録する。
func (c *Collector) RecordGenerationSuccess() {
	c.generationSuccess.Inc()
}

// RecordGenerationFailure はプラン生成失敗を失敗ステップ付きで記録する。
func (c *Collector) RecordGenerationFailure(stage string) {
	c.generationFail.WithLabelValues(stage).Inc()
}

// RecordCompletionLatency はAI補完のレイテンシを記録する。
func (c *Collector) RecordCompletionLatency(kind string, duration time.Duration) {
	c.completionLatency.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
