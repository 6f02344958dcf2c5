package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/fitforge/internal/model"
)

// SessionServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	Record(ctx context.Context, clerkID string) (*model.Session, error)
}

// SessionHandler はセッション記録のHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

// recordSessionRequest はセッション記録リクエストのボディ。
type recordSessionRequest struct {
	ClerkID string `json:"clerk_id"`
}

// recordSessionResponse はセッション記録のAPIレスポンス。
type recordSessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Record はアクティブセッションの記録を処理する。
// POST /api/sessions
// フロントエンドがIdP認証完了後に呼び出す。
func (h *SessionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorEnvelope(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ClerkID == "" {
		writeErrorEnvelope(w, http.StatusBadRequest, "clerk_id is required")
		return
	}

	session, err := h.service.Record(r.Context(), req.ClerkID)
	if err != nil {
		handleProgramError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordSessionResponse{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	})
}
