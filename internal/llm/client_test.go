package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestComplete_ChatFormat(t *testing.T) {
	var gotReq completionRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "Hello there"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "llama2", FormatChat, 5*time.Second)
	text, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello there" {
		t.Errorf("got %q, want %q", text, "Hello there")
	}
	if gotReq.Model != "llama2" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("stream must be false")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != RoleSystem {
		t.Errorf("messages not forwarded in order: %+v", gotReq.Messages)
	}
	if gotAuth != "" {
		t.Errorf("no Authorization header expected without an API key, got %q", gotAuth)
	}
}

func TestComplete_GenerateFormat(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"output": map[string]any{"text": "Generated text"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", "qwen", FormatGenerate, 5*time.Second)
	text, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Generated text" {
		t.Errorf("got %q", text)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestComplete_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "llama2", FormatChat, 5*time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if backendErr.Kind != KindRejected {
		t.Errorf("kind = %v, want KindRejected", backendErr.Kind)
	}
	if backendErr.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d", backendErr.Status)
	}
	text := backendErr.UserText()
	if !strings.Contains(text, "429") || !strings.Contains(text, "rate limited") {
		t.Errorf("user text must embed status and body: %q", text)
	}
}

func TestComplete_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // Nothing listens here anymore.

	client := NewClient(url, "", "llama2", FormatChat, 2*time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if backendErr.Kind != KindConnection {
		t.Errorf("kind = %v, want KindConnection", backendErr.Kind)
	}
	if !strings.HasPrefix(backendErr.UserText(), ConnectionAdvisory) {
		t.Errorf("user text = %q, want the fixed connection advisory", backendErr.UserText())
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "llama2", FormatChat, 5*time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if backendErr.Kind != KindUnexpected {
		t.Errorf("kind = %v, want KindUnexpected", backendErr.Kind)
	}
	if backendErr.UserText() == "" {
		t.Error("unexpected faults must still render user text")
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "llama2", FormatChat, 50*time.Millisecond)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if backendErr.Kind != KindConnection {
		t.Errorf("timeout classified as %v, want KindConnection", backendErr.Kind)
	}
}
