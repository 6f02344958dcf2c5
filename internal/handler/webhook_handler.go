// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/fitforge/internal/webhook"
)

// maxWebhookBodySize はWebhookボディの最大サイズ。
const maxWebhookBodySize = 1 << 20 // 1MB

// WebhookVerifierInterface はWebhookハンドラーが必要とする検証インターフェース。
type WebhookVerifierInterface interface {
	Verify(payload []byte, headers http.Header) (*webhook.IdentityEvent, error)
}

// UserSyncerInterface はWebhookハンドラーが必要とする同期インターフェース。
type UserSyncerInterface interface {
	SyncUser(ctx context.Context, evt *webhook.IdentityEvent) error
}

// WebhookMetrics はWebhook処理のメトリクス記録インターフェース。nil可。
type WebhookMetrics interface {
	RecordWebhookVerified()
	RecordWebhookRejected(reason string)
	RecordUserSync(result string)
}

// WebhookHandler はClerk WebhookのHTTPハンドラー。
type WebhookHandler struct {
	verifier WebhookVerifierInterface
	syncer   UserSyncerInterface
	metrics  WebhookMetrics
}

// NewWebhookHandler はWebhookHandlerを生成する。
func NewWebhookHandler(verifier WebhookVerifierInterface, syncer UserSyncerInterface, metrics WebhookMetrics) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		syncer:   syncer,
		metrics:  metrics,
	}
}

// HandleWebhook はClerkからの署名付きイベントを処理する。
// POST /clerk-webhook
//
// 必須ヘッダーが欠けている場合は検証を試みずに400を返す。
// 検証失敗は400、ユーザーストア障害は500を返す（IdPが配送を再試行する）。
// 検証に成功しディスパッチ不要または成功の場合は常に200。
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	// 1. 必須ヘッダーの存在確認（欠落時は検証自体を行わない）
	if r.Header.Get(webhook.HeaderID) == "" ||
		r.Header.Get(webhook.HeaderSignature) == "" ||
		r.Header.Get(webhook.HeaderTimestamp) == "" {
		h.recordRejected("missing_headers")
		http.Error(w, "No svix headers found", http.StatusBadRequest)
		return
	}

	// 2. ボディの読み取り
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		h.recordRejected("body_read_failed")
		http.Error(w, "Error occurred", http.StatusBadRequest)
		return
	}

	// 3. 署名検証（fail closed: 例外・不一致はすべて400）
	evt, err := h.verifier.Verify(body, r.Header)
	if err != nil {
		h.recordRejected("verification_failed")
		http.Error(w, "Error occurred", http.StatusBadRequest)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordWebhookVerified()
	}

	// 4. ユーザー同期へディスパッチ（未知イベント種別はno-op）
	if err := h.syncer.SyncUser(r.Context(), evt); err != nil {
		slog.Error("failed to sync user from webhook",
			slog.String("kind", string(evt.Kind)),
			slog.String("error", err.Error()),
		)
		if h.metrics != nil {
			h.metrics.RecordUserSync("fail")
		}
		http.Error(w, "Error syncing user", http.StatusInternalServerError)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordUserSync("ok")
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhooks processed successfully"))
}

func (h *WebhookHandler) recordRejected(reason string) {
	if h.metrics != nil {
		h.metrics.RecordWebhookRejected(reason)
	}
}
