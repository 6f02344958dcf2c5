package webhook

import (
	"fmt"
	"log/slog"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// svix署名検証に必要なヘッダー名。
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// Verifier はsvix署名付きWebhookの検証を行う。
// 検証は共有シークレットによるHMAC方式で、失敗時は常に拒否する
// （fail closed）。検証の詳細はsvixライブラリに委譲する。
type Verifier struct {
	wh     *svix.Webhook
	logger *slog.Logger
}

// NewVerifier はVerifierを生成する。
// secretが空の場合は設定不備としてエラーを返す
// （リクエスト単位の拒否とは区別されるプロセス起動時の障害）。
func NewVerifier(secret string, logger *slog.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhookシークレットが設定されていません")
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("webhook検証器の初期化に失敗しました: %w", err)
	}

	return &Verifier{wh: wh, logger: logger}, nil
}

// Verify は署名検証を行い、成功時に型付きイベントを返す。
// 署名不一致・タイムスタンプ逸脱・ペイロード不正はすべて
// エラーとして返し、再試行しない（IdP側が配送を再試行する）。
func (v *Verifier) Verify(payload []byte, headers http.Header) (*IdentityEvent, error) {
	if err := v.wh.Verify(payload, headers); err != nil {
		v.logger.Warn("webhook署名の検証に失敗しました",
			slog.String("svix_id", headers.Get(HeaderID)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("webhook署名の検証に失敗しました: %w", err)
	}

	evt, err := parseEvent(payload)
	if err != nil {
		v.logger.Warn("webhookペイロードの解析に失敗しました",
			slog.String("svix_id", headers.Get(HeaderID)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("webhookペイロードの解析に失敗しました: %w", err)
	}

	return evt, nil
}
