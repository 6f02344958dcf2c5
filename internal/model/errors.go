// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはクライアント表示に適した文言を保持する。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（クライアント表示用）
	Category string // カテゴリ: auth, validation, ai, data, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNoActiveSession   = "NO_ACTIVE_SESSION"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeInvalidAIResponse = "INVALID_AI_RESPONSE"
	ErrCodeCompletionFailed  = "COMPLETION_FAILED"
	ErrCodeEmptyEmailList    = "EMPTY_EMAIL_LIST"
	ErrCodePlanSaveFailed    = "PLAN_SAVE_FAILED"
)

// NewNoActiveSessionError はアクティブセッション不在エラーを生成する。
// プラン生成はセッション由来の本人特定ができない場合は実行しない。
func NewNoActiveSessionError() *APIError {
	return &APIError{
		Code:     ErrCodeNoActiveSession,
		Message:  "No active user session found. Please refresh and try again.",
		Category: "auth",
	}
}

// NewUserNotFoundError はセッションはあるがユーザーレコードが存在しない
// 整合性異常のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found in database",
		Category: "data",
	}
}

// NewInvalidAIResponseError はAI応答がJSONとして解析できない場合のエラーを生成する。
// 不正な応答は同一入力で再試行しない。
func NewInvalidAIResponseError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAIResponse,
		Message:  fmt.Sprintf("AI returned an invalid %s plan response", kind),
		Category: "ai",
	}
}

// NewCompletionFailedError はAI補完呼び出し自体の失敗エラーを生成する。
func NewCompletionFailedError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeCompletionFailed,
		Message:  fmt.Sprintf("Failed to generate %s plan", kind),
		Category: "ai",
	}
}

// NewEmptyEmailListError はWebhookイベントのメールアドレスリストが空の場合の
// エラーを生成する。上流（IdP）の契約違反でありクライアント起因ではない。
func NewEmptyEmailListError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyEmailList,
		Message:  "identity event contains no email addresses",
		Category: "data",
	}
}

// NewPlanSaveFailedError はプラン永続化の失敗エラーを生成する。
func NewPlanSaveFailedError() *APIError {
	return &APIError{
		Code:     ErrCodePlanSaveFailed,
		Message:  "Failed to save generated plan",
		Category: "system",
	}
}
