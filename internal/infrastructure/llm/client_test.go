package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teachassist/internal/config"
)

func testClient(t *testing.T, apiKey string, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: srv.URL,
		Model:   "gpt-3.5-turbo",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestValidateKey_MissingKey(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request should be made without a key")
	})
	if err := c.ValidateKey(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestValidateKey_OK(t *testing.T) {
	c := testClient(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	if err := c.ValidateKey(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateKey_Rejected(t *testing.T) {
	c := testClient(t, "sk-bad", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})
	if err := c.ValidateKey(context.Background()); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
}

func TestChatCompletion_QuotaExceeded(t *testing.T) {
	c := testClient(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	})
	_, err := c.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestChatCompletion_Success(t *testing.T) {
	c := testClient(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "gpt-3.5-turbo" || req.Temperature != 0.7 || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[{\"question\":\"q\"}]"}}]}`))
	})

	out, err := c.ChatCompletion(context.Background(), []Message{
		{Role: "system", Content: "You are a teacher."},
		{Role: "user", Content: "Generate questions."},
	}, 0.7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != `[{"question":"q"}]` {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestChatCompletion_NoChoices(t *testing.T) {
	c := testClient(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
