package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/fitforge/internal/metrics"
	"github.com/hitoshi/fitforge/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DB がそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.StatusRecorder

	// Webhook
	Verifier       WebhookVerifierInterface
	Syncer         UserSyncerInterface
	WebhookMetrics WebhookMetrics

	// プラン生成
	ProgramService ProgramServiceInterface

	// セッション記録
	SessionService SessionServiceInterface

	// 運用
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS
//
// /clerk-webhook はIdPからの配送のためレート制限の外に置く。
// /vapi/generate-program にはAI補完コストを考慮した専用レート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.HTTPMetrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	webhookHandler := NewWebhookHandler(deps.Verifier, deps.Syncer, deps.WebhookMetrics)
	programHandler := NewProgramHandler(deps.ProgramService)
	sessionHandler := NewSessionHandler(deps.SessionService)

	// --- 運用エンドポイント ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- IdPからのWebhook配送 ---

	r.Post("/clerk-webhook", webhookHandler.HandleWebhook)

	// --- クライアント向けAPI ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Post("/api/sessions", sessionHandler.Record)
		r.Get("/vapi/plans", programHandler.ListPlans)

		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.GenerateMiddleware()).Post("/vapi/generate-program", programHandler.GenerateProgram)
		} else {
			r.Post("/vapi/generate-program", programHandler.GenerateProgram)
		}
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := checker.PingContext(ctx); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

// --- ヘルパー関数 ---

// successEnvelope は成功レスポンスの統一フォーマット。
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope は失敗レスポンスの統一フォーマット。
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeErrorEnvelope は統一エラーエンベロープを書き込む。
func writeErrorEnvelope(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorEnvelope{Success: false, Error: message})
}
