package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig(provider, baseURL string) Config {
	return Config{Provider: provider, Model: "llama-3.1-8b-instant", BaseURL: baseURL, MaxTokens: 256}
}

func TestNew_requiresAPIKey(t *testing.T) {
	if _, err := New(testConfig(ProviderGroq, ""), "  "); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestNew_providers(t *testing.T) {
	for _, name := range []string{ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		p, err := New(testConfig(name, ""), "key")
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("Name() = %q, want %q", p.Name(), name)
		}
	}
	if _, err := New(testConfig(ProviderOpenAICompat, ""), "key"); err == nil {
		t.Error("openai-compat without base_url should fail")
	}
	if _, err := New(testConfig("cohere", ""), "key"); err == nil {
		t.Error("unknown provider should fail")
	}
	if _, err := New(Config{Provider: ProviderGroq, Model: "m"}, "key"); err == nil {
		t.Error("zero max_tokens should fail")
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"llama-3.1-8b-instant",
			"choices":[{"index":0,"message":{"role":"assistant","content":"\n- Add Kubernetes\n"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`)
	}))
	defer srv.Close()

	p, err := New(testConfig(ProviderOpenAICompat, srv.URL+"/v1"), "secret")
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.Complete(context.Background(), "Suggest improvements")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "- Add Kubernetes" {
		t.Errorf("got %q", got)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "llama-3.1-8b-instant" {
		t.Errorf("model = %v", gotBody["model"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected a single message, got %v", gotBody["messages"])
	}
	if m, _ := msgs[0].(map[string]any); m["role"] != "user" || m["content"] != "Suggest improvements" {
		t.Errorf("message = %v", m)
	}
}

func TestOpenAIProvider_errors(t *testing.T) {
	var calls int
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, `{"error":{"message":"slow down","type":"rate_limit","code":"rate_limit"}}`)
	}))
	defer srv.Close()

	p, err := New(testConfig(ProviderOpenAICompat, srv.URL+"/v1"), "secret")
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Complete(context.Background(), "x")
	var llmErr *Error
	if !errors.As(err, &llmErr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if llmErr.StatusCode != http.StatusTooManyRequests || !llmErr.Retryable() {
		t.Errorf("status %d retryable %v", llmErr.StatusCode, llmErr.Retryable())
	}
	if calls != 1 {
		t.Errorf("expected no retries, got %d calls", calls)
	}

	status = http.StatusUnauthorized
	_, err = p.Complete(context.Background(), "x")
	if IsRetryable(err) {
		t.Errorf("401 should not be retryable: %v", err)
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude",
			"content":[{"type":"text","text":"PROFILE SUMMARY\nGo engineer  "}],
			"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":2}}`)
	}))
	defer srv.Close()

	p, err := New(testConfig(ProviderAnthropic, srv.URL), "secret")
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.Complete(context.Background(), "Create a resume")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "PROFILE SUMMARY\nGo engineer" {
		t.Errorf("got %q", got)
	}
}

func TestError_Retryable(t *testing.T) {
	cases := []struct {
		err  *Error
		want bool
	}{
		{&Error{StatusCode: 429}, true},
		{&Error{StatusCode: 503}, true},
		{&Error{StatusCode: 400}, false},
		{&Error{StatusCode: 401}, false},
		{&Error{Err: context.DeadlineExceeded}, true},
		{&Error{Err: context.Canceled}, false},
		{&Error{Err: errors.New("malformed")}, false},
	}
	for _, c := range cases {
		if got := c.err.Retryable(); got != c.want {
			t.Errorf("%+v Retryable() = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestError_unwrap(t *testing.T) {
	err := wrapError("groq", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Error should unwrap to the cause")
	}
	if !strings.Contains(err.Error(), "groq") {
		t.Errorf("message should name the provider: %q", err.Error())
	}
}

func TestOpenAIProvider_contextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p, _ := New(testConfig(ProviderOpenAICompat, srv.URL), "secret")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Complete(ctx, "x")
	if !IsRetryable(err) {
		t.Errorf("timeout should be retryable, got %v", err)
	}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()
	m.SetResponse("  ok ")
	got, err := m.Complete(context.Background(), "prompt")
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
	if m.LastPrompt() != "prompt" || m.CallCount() != 1 {
		t.Errorf("last=%q count=%d", m.LastPrompt(), m.CallCount())
	}
	m.SetError(errors.New("boom"))
	if _, err := m.Complete(context.Background(), "p"); err == nil {
		t.Error("expected error")
	}
}
