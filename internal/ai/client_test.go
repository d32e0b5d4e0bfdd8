package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
)

func TestRespondGemini(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello there"}]}}]}`))
	}))
	defer server.Close()

	client := New("gemini-2.5-flash", "test-key", WithBaseURL(server.URL))
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hey"},
		{Role: models.RoleUser, Content: "how was my week?"},
	}

	reply, err := client.Respond(context.Background(), "You are a helpful companion.", history, nil)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "hello there" {
		t.Errorf("reply = %q, want %q", reply, "hello there")
	}
	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "key=test-key") {
		t.Errorf("query = %q, want key param", gotQuery)
	}

	// Priming exchange first, then the history with roles mapped.
	if len(gotBody.Contents) != 5 {
		t.Fatalf("contents = %d entries, want 5", len(gotBody.Contents))
	}
	if gotBody.Contents[0].Role != "user" || gotBody.Contents[0].Parts[0].Text != "You are a helpful companion." {
		t.Errorf("first content = %+v, want system prompt as user turn", gotBody.Contents[0])
	}
	if gotBody.Contents[1].Role != "model" {
		t.Errorf("second content role = %q, want model", gotBody.Contents[1].Role)
	}
	if gotBody.Contents[3].Role != "model" {
		t.Errorf("assistant history role = %q, want model", gotBody.Contents[3].Role)
	}
	if gotBody.Contents[4].Parts[0].Text != "how was my week?" {
		t.Errorf("last content = %+v", gotBody.Contents[4])
	}
}

func TestRespondOpenAICompatible(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"sure thing"}}]}`))
	}))
	defer server.Close()

	client := New("gpt-4o-mini", "sk-test", WithBaseURL(server.URL))
	history := []models.ChatMessage{{Role: models.RoleUser, Content: "summarize today"}}

	reply, err := client.Respond(context.Background(), "system prompt", history, nil)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "sure thing" {
		t.Errorf("reply = %q, want %q", reply, "sure thing")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want system message first", gotBody.Messages)
	}
}

func TestRespondUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := New("gemini-2.5-flash", "k", WithBaseURL(server.URL))
	_, err := client.Respond(context.Background(), "prompt", nil, nil)
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error = %v, want upstream message included", err)
	}
}

func TestRespondMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := New("gemini-2.5-flash", "k", WithBaseURL(server.URL))
	_, err := client.Respond(context.Background(), "prompt", nil, nil)
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestRespondUnsupportedModel(t *testing.T) {
	client := New("llama-unknown", "k")
	_, err := client.Respond(context.Background(), "prompt", nil, nil)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestRespondCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client := New("gemini-2.5-flash", "k", WithBaseURL(server.URL))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Respond(ctx, "prompt", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, apperrors.ErrUpstream) {
		t.Error("cancellation should not be reported as an upstream failure")
	}
}

func TestAttachmentInlinedByType(t *testing.T) {
	image := &models.Attachment{Name: "pic.png", MimeType: "image/png", DataURI: "data:image/png;base64,aGk="}
	part := attachmentPart(image)
	if part.InlineData == nil || part.InlineData.MimeType != "image/png" || part.InlineData.Data != "aGk=" {
		t.Errorf("image part = %+v, want inline data", part)
	}

	// Text files are decoded and wrapped rather than inlined as base64.
	text := &models.Attachment{Name: "notes.txt", MimeType: "text/plain", DataURI: "data:text/plain;base64,aGVsbG8="}
	part = attachmentPart(text)
	if part.InlineData != nil {
		t.Fatalf("text part = %+v, want text", part)
	}
	if !strings.Contains(part.Text, "notes.txt") || !strings.Contains(part.Text, "hello") {
		t.Errorf("text part = %q, want name and decoded content", part.Text)
	}
}
