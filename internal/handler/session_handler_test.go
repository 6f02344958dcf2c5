package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/fitforge/internal/model"
)

// mockSessionService はSessionServiceInterfaceのモック実装。
type mockSessionService struct {
	recordFn func(ctx context.Context, clerkID string) (*model.Session, error)
}

func (m *mockSessionService) Record(ctx context.Context, clerkID string) (*model.Session, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, clerkID)
	}
	return nil, nil
}

func TestSessionHandler_Record_Success(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	svc := &mockSessionService{
		recordFn: func(ctx context.Context, clerkID string) (*model.Session, error) {
			if clerkID != "user_abc" {
				t.Errorf("clerkID = %q, want %q", clerkID, "user_abc")
			}
			return &model.Session{ID: "sess-1", ClerkID: clerkID, ExpiresAt: expires}, nil
		},
	}
	h := NewSessionHandler(svc)

	body := `{"clerk_id": "user_abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	resp := decodeEnvelope(t, rec)
	if resp["session_id"] != "sess-1" {
		t.Errorf("session_id = %v, want sess-1", resp["session_id"])
	}
	if resp["expires_at"] == "" {
		t.Error("expected expires_at in response")
	}
}

func TestSessionHandler_Record_MissingClerkID(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_Record_InvalidBody(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_Record_ServiceFailure(t *testing.T) {
	svc := &mockSessionService{
		recordFn: func(ctx context.Context, clerkID string) (*model.Session, error) {
			return nil, errors.New("insert failed")
		},
	}
	h := NewSessionHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString(`{"clerk_id": "user_abc"}`))
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
