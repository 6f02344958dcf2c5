package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/fitforge/internal/webhook"
)

// --- モック定義 ---

// mockVerifier はWebhookVerifierInterfaceのモック実装。
type mockVerifier struct {
	verifyFn func(payload []byte, headers http.Header) (*webhook.IdentityEvent, error)

	calls int
}

func (m *mockVerifier) Verify(payload []byte, headers http.Header) (*webhook.IdentityEvent, error) {
	m.calls++
	if m.verifyFn != nil {
		return m.verifyFn(payload, headers)
	}
	return &webhook.IdentityEvent{}, nil
}

// mockSyncer はUserSyncerInterfaceのモック実装。
type mockSyncer struct {
	syncUserFn func(ctx context.Context, evt *webhook.IdentityEvent) error

	calls int
}

func (m *mockSyncer) SyncUser(ctx context.Context, evt *webhook.IdentityEvent) error {
	m.calls++
	if m.syncUserFn != nil {
		return m.syncUserFn(ctx, evt)
	}
	return nil
}

// --- POST /clerk-webhook テスト ---

func webhookRequest(body []byte, withHeaders bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/clerk-webhook", bytes.NewReader(body))
	if withHeaders {
		req.Header.Set(webhook.HeaderID, "msg_1")
		req.Header.Set(webhook.HeaderTimestamp, "1700000000")
		req.Header.Set(webhook.HeaderSignature, "v1,dGVzdA==")
	}
	return req
}

func TestWebhookHandler_MissingHeaders(t *testing.T) {
	verifier := &mockVerifier{}
	syncer := &mockSyncer{}
	h := NewWebhookHandler(verifier, syncer, nil)

	req := webhookRequest([]byte(`{"type":"user.created"}`), false)
	rec := httptest.NewRecorder()

	h.HandleWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := rec.Body.String(); !bytes.Contains([]byte(got), []byte("No svix headers found")) {
		t.Errorf("body = %q, want to contain %q", got, "No svix headers found")
	}

	// ヘッダー欠落時は検証もディスパッチも行われない
	if verifier.calls != 0 {
		t.Errorf("verifier calls = %d, want 0", verifier.calls)
	}
	if syncer.calls != 0 {
		t.Errorf("syncer calls = %d, want 0", syncer.calls)
	}
}

func TestWebhookHandler_PartialHeaders(t *testing.T) {
	verifier := &mockVerifier{}
	h := NewWebhookHandler(verifier, &mockSyncer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/clerk-webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(webhook.HeaderID, "msg_1")
	// timestamp と signature は欠落
	rec := httptest.NewRecorder()

	h.HandleWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if verifier.calls != 0 {
		t.Errorf("verifier calls = %d, want 0", verifier.calls)
	}
}

func TestWebhookHandler_VerificationFailure(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(payload []byte, headers http.Header) (*webhook.IdentityEvent, error) {
			return nil, errors.New("signature mismatch")
		},
	}
	syncer := &mockSyncer{}
	h := NewWebhookHandler(verifier, syncer, nil)

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, webhookRequest([]byte(`{"type":"user.created"}`), true))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if syncer.calls != 0 {
		t.Errorf("syncer calls = %d, want 0", syncer.calls)
	}
}

func TestWebhookHandler_SyncSuccess(t *testing.T) {
	evt := &webhook.IdentityEvent{
		Kind:    webhook.EventUserCreated,
		ClerkID: "user_abc",
	}
	verifier := &mockVerifier{
		verifyFn: func(payload []byte, headers http.Header) (*webhook.IdentityEvent, error) {
			return evt, nil
		},
	}
	var synced *webhook.IdentityEvent
	syncer := &mockSyncer{
		syncUserFn: func(ctx context.Context, got *webhook.IdentityEvent) error {
			synced = got
			return nil
		},
	}
	h := NewWebhookHandler(verifier, syncer, nil)

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, webhookRequest([]byte(`{"type":"user.created"}`), true))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "Webhooks processed successfully" {
		t.Errorf("body = %q, want %q", got, "Webhooks processed successfully")
	}
	if synced != evt {
		t.Error("expected the verified event to be dispatched as-is")
	}
}

func TestWebhookHandler_SyncFailure(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(payload []byte, headers http.Header) (*webhook.IdentityEvent, error) {
			return &webhook.IdentityEvent{Kind: webhook.EventUserCreated}, nil
		},
	}
	syncer := &mockSyncer{
		syncUserFn: func(ctx context.Context, evt *webhook.IdentityEvent) error {
			return errors.New("db unavailable")
		},
	}
	h := NewWebhookHandler(verifier, syncer, nil)

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, webhookRequest([]byte(`{"type":"user.created"}`), true))

	// IdPが配送を再試行できるように500を返す
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
