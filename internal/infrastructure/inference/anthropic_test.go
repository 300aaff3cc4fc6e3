package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"venturedesk/ai-api/internal/domain/aigateway"
)

func TestAnthropicGenerateText(t *testing.T) {
	var captured anthropicMessagesRequest
	var gotAPIKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"model": "claude-sonnet-4-5",
			"stop_reason": "end_turn",
			"content": [{"type": "text", "text": "Hello "}, {"type": "text", "text": "there."}],
			"usage": {"input_tokens": 9, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	adapter := newAnthropicAdapter("sk-ant-test", srv.URL, 0)
	resp, err := adapter.GenerateText(context.Background(), "Say hello", aigateway.GenerateOptions{
		SystemPrompt: "You are terse.",
		MaxTokens:    64,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAPIKey != "sk-ant-test" {
		t.Fatalf("expected x-api-key header, got %q", gotAPIKey)
	}
	if gotVersion != anthropicVersion {
		t.Fatalf("expected anthropic-version %s, got %q", anthropicVersion, gotVersion)
	}
	if captured.Model != anthropicDefaultModel {
		t.Fatalf("expected default model %s, got %s", anthropicDefaultModel, captured.Model)
	}
	if captured.MaxTokens != 64 {
		t.Fatalf("expected max_tokens 64, got %d", captured.MaxTokens)
	}
	if captured.System != "You are terse." {
		t.Fatalf("system prompt not forwarded: %q", captured.System)
	}

	if resp.Provider != aigateway.ProviderAnthropic {
		t.Fatalf("expected provider anthropic, got %s", resp.Provider)
	}
	if resp.Content == nil || *resp.Content != "Hello there." {
		t.Fatalf("content blocks not joined: %v", resp.Content)
	}
	if resp.TokensUsed != 14 {
		t.Fatalf("expected 14 tokens, got %d", resp.TokensUsed)
	}
	if resp.Metadata[aigateway.MetaFinishReason] != "end_turn" {
		t.Fatalf("unexpected finish reason: %v", resp.Metadata[aigateway.MetaFinishReason])
	}
}

func TestAnthropicGenerateTextVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	adapter := newAnthropicAdapter("sk-ant-bad", srv.URL, 0)
	_, err := adapter.GenerateText(context.Background(), "hello", aigateway.GenerateOptions{})
	if !aigateway.IsKind(err, aigateway.KindGenerationFailed) {
		t.Fatalf("expected KindGenerationFailed, got %v", err)
	}

	var gerr *aigateway.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GatewayError, got %T", err)
	}
	if gerr.Context["prompt"] != "hello" {
		t.Fatalf("expected prompt in replay context, got %v", gerr.Context)
	}
}

func TestAnthropicEmbeddingUnsupported(t *testing.T) {
	adapter := newAnthropicAdapter("sk-ant-test", "http://unused", 0)
	_, err := adapter.GenerateEmbedding(context.Background(), "vectorize me")
	if !aigateway.IsKind(err, aigateway.KindCapabilityUnsupported) {
		t.Fatalf("expected KindCapabilityUnsupported, got %v", err)
	}
}

func TestAnthropicIsHealthy(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"claude-sonnet-4-5","stop_reason":"max_tokens","content":[{"type":"text","text":"p"}],"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	adapter := newAnthropicAdapter("sk-ant-test", srv.URL, 0)
	if !adapter.IsHealthy(context.Background()) {
		t.Fatal("expected healthy adapter")
	}
	if calls != 1 {
		t.Fatalf("expected a single probe call, got %d", calls)
	}
}
