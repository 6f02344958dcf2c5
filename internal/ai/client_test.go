package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// completionResponse はOpenAI互換エンドポイントの応答を組み立てるヘルパー。
func completionResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   DefaultModel,
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestClient_CompleteJSON_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse(`{"schedule": ["Monday"]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, slog.Default())

	got, err := client.CompleteJSON(context.Background(), "build a workout plan")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}

	if got != `{"schedule": ["Monday"]}` {
		t.Errorf("content = %q", got)
	}
	if !strings.HasSuffix(gotPath, "/chat/completions") {
		t.Errorf("path = %q, want /chat/completions suffix", gotPath)
	}

	// リクエストにモデル・温度・JSON強制が含まれる
	if gotBody["model"] != DefaultModel {
		t.Errorf("model = %v, want %v", gotBody["model"], DefaultModel)
	}
	if gotBody["temperature"] != 0.4 {
		t.Errorf("temperature = %v, want 0.4", gotBody["temperature"])
	}
	rf, ok := gotBody["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", gotBody["response_format"])
	}
}

func TestClient_CompleteJSON_CustomModel(t *testing.T) {
	var gotModel any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body["model"]
		json.NewEncoder(w).Encode(completionResponse("{}"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:  "test-key",
		Model:   "llama-3.1-8b-instant",
		BaseURL: server.URL,
	}, slog.Default())

	if _, err := client.CompleteJSON(context.Background(), "prompt"); err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if gotModel != "llama-3.1-8b-instant" {
		t.Errorf("model = %v, want llama-3.1-8b-instant", gotModel)
	}
}

func TestClient_CompleteJSON_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "tokens"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL}, slog.Default())

	if _, err := client.CompleteJSON(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestClient_CompleteJSON_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"choices": []any{},
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL}, slog.Default())

	if _, err := client.CompleteJSON(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestClient_CompleteJSON_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL}, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.CompleteJSON(ctx, "prompt"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
