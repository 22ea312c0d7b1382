package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cv-standardizer/internal/llm"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4"); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewClient("sk-test", ""); err == nil {
		t.Error("expected error for missing model")
	}
	if _, err := NewClient("sk-test", "gpt-4"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCompleteSendsSystemAndUser(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "# John Doe\n"}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-4", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithEndpoint: %v", err)
	}
	got, err := client.Complete(context.Background(), "be a cv analyst", "CV TEXT")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "# John Doe" {
		t.Fatalf("expected trimmed content, got %q", got)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "be a cv analyst" {
		t.Errorf("unexpected system message %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "CV TEXT" {
		t.Errorf("unexpected user message %+v", captured.Messages[1])
	}
	if captured.Temperature == nil || *captured.Temperature != 0 {
		t.Error("expected temperature 0 for non gpt-5 model")
	}
}

func TestCompleteOmitsTemperatureForGPT5(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-5-mini", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithEndpoint: %v", err)
	}
	if _, err := client.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if captured.Temperature != nil {
		t.Error("expected no temperature for gpt-5 model")
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-bad", "gpt-4", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithEndpoint: %v", err)
	}
	_, err = client.Complete(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-4", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithEndpoint: %v", err)
	}
	_, err = client.Complete(context.Background(), "s", "u")
	var rateErr *llm.RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateErr.RetryAfter.Seconds() != 12 {
		t.Errorf("expected 12s retry-after, got %s", rateErr.RetryAfter)
	}
	if rateErr.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", rateErr.Provider)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  "}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-4", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithEndpoint: %v", err)
	}
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for empty content")
	}
}
