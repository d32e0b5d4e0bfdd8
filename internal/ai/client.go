// Package ai is the HTTP client for the chat assistant. It speaks the Gemini
// generateContent API and the OpenAI-compatible chat completions API used by
// OpenAI, Mistral and Grok, selecting the provider from the model name.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lichiahui/lifelog/internal/constants"
	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com"
	openAIBaseURL  = "https://api.openai.com"
	mistralBaseURL = "https://api.mistral.ai"
	grokBaseURL    = "https://api.x.ai"
)

type Client struct {
	model      string
	apiKey     string
	httpClient *http.Client
	baseURL    string // overrides the provider host, for tests
	contextLen int    // conversation turns sent with each request
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

func WithContextLength(turns int) Option {
	return func(c *Client) { c.contextLen = turns }
}

func New(model, apiKey string, opts ...Option) *Client {
	c := &Client{
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		contextLen: constants.DefaultContextTurns,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Respond sends the conversation to the configured provider and returns the
// assistant's reply. The attachment, if any, rides along with the newest user
// message. A canceled context is returned as ctx.Err() unwrapped so callers
// can tell an interruption apart from an upstream failure.
func (c *Client) Respond(ctx context.Context, systemPrompt string, history []models.ChatMessage, attachment *models.Attachment) (string, error) {
	endpoint, bearer, gemini, err := c.endpoint()
	if err != nil {
		return "", err
	}

	history = trimHistory(history, c.contextLen*2)

	var body any
	if gemini {
		body = c.geminiBody(systemPrompt, history, attachment)
	} else {
		body = c.openAIBody(systemPrompt, history, attachment)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", apperrors.ErrUpstream, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUpstream, upstreamMessage(raw, res.StatusCode))
	}

	if gemini {
		return parseGeminiReply(raw)
	}
	return parseOpenAIReply(raw)
}

func (c *Client) endpoint() (url string, bearer, gemini bool, err error) {
	switch {
	case strings.Contains(c.model, "gemini"):
		base := c.baseURL
		if base == "" {
			base = geminiBaseURL
		}
		return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", base, c.model, c.apiKey), false, true, nil
	case strings.Contains(c.model, "gpt"), strings.Contains(c.model, "chatgpt"):
		return c.chatCompletionsURL(openAIBaseURL), true, false, nil
	case strings.Contains(c.model, "mistral"):
		return c.chatCompletionsURL(mistralBaseURL), true, false, nil
	case strings.Contains(c.model, "grok"):
		return c.chatCompletionsURL(grokBaseURL), true, false, nil
	}
	return "", false, false, fmt.Errorf("%w: unsupported model %q", apperrors.ErrValidation, c.model)
}

func (c *Client) chatCompletionsURL(defaultBase string) string {
	base := c.baseURL
	if base == "" {
		base = defaultBase
	}
	return base + "/v1/chat/completions"
}

func trimHistory(history []models.ChatMessage, max int) []models.ChatMessage {
	if max > 0 && len(history) > max {
		return history[len(history)-max:]
	}
	return history
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

// The system prompt goes in as a priming user/model exchange rather than a
// dedicated field, matching how the web client drives the same endpoint.
func (c *Client) geminiBody(systemPrompt string, history []models.ChatMessage, attachment *models.Attachment) any {
	contents := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: systemPrompt}}},
		{Role: "model", Parts: []geminiPart{{Text: "OK."}}},
	}

	for i, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		parts := []geminiPart{}
		if msg.Content != "" {
			parts = append(parts, geminiPart{Text: msg.Content})
		}
		file := msg.File
		if i == len(history)-1 && msg.Role == models.RoleUser && attachment != nil {
			file = attachment
		}
		if role == "user" && file != nil {
			parts = append(parts, attachmentPart(file))
		}
		if len(parts) > 0 {
			contents = append(contents, geminiContent{Role: role, Parts: parts})
		}
	}

	if len(history) == 0 && attachment != nil {
		contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{attachmentPart(attachment)}})
	}

	return map[string]any{"contents": contents}
}

// attachmentPart inlines images as base64 data and other files as decoded
// text wrapped in an attachment marker.
func attachmentPart(file *models.Attachment) geminiPart {
	mime, data, ok := splitDataURI(file.DataURI)
	if !ok {
		return geminiPart{Text: fmt.Sprintf("\n\n <Attachment> %s (unreadable) </Attachment>", file.Name)}
	}
	if strings.HasPrefix(mime, "image/") {
		return geminiPart{InlineData: &geminiInlineData{MimeType: mime, Data: data}}
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return geminiPart{Text: fmt.Sprintf("\n\n <Attachment> %s (unreadable) </Attachment>", file.Name)}
	}
	return geminiPart{Text: fmt.Sprintf("\n\n <Attachment> %s \n%s\n </Attachment>", file.Name, decoded)}
}

type openAIContentPart struct {
	Type     string             `json:"type"`
	Text     string             `json:"text,omitempty"`
	ImageURL *openAIImageSource `json:"image_url,omitempty"`
}

type openAIImageSource struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

func (c *Client) openAIBody(systemPrompt string, history []models.ChatMessage, attachment *models.Attachment) any {
	messages := []openAIMessage{{Role: "system", Content: systemPrompt}}

	for i, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "assistant"
		}
		parts := []openAIContentPart{}
		if msg.Content != "" {
			parts = append(parts, openAIContentPart{Type: "text", Text: msg.Content})
		}
		file := msg.File
		if i == len(history)-1 && msg.Role == models.RoleUser && attachment != nil {
			file = attachment
		}
		if role == "user" && file != nil {
			parts = append(parts, openAIAttachmentPart(file))
		}
		if len(parts) > 0 {
			messages = append(messages, openAIMessage{Role: role, Content: parts})
		}
	}

	if len(history) == 0 && attachment != nil {
		messages = append(messages, openAIMessage{Role: "user", Content: []openAIContentPart{openAIAttachmentPart(attachment)}})
	}

	return map[string]any{"model": c.model, "messages": messages}
}

func openAIAttachmentPart(file *models.Attachment) openAIContentPart {
	mime, _, ok := splitDataURI(file.DataURI)
	if ok && strings.HasPrefix(mime, "image/") {
		return openAIContentPart{Type: "image_url", ImageURL: &openAIImageSource{URL: file.DataURI}}
	}
	part := attachmentPart(file)
	return openAIContentPart{Type: "text", Text: part.Text}
}

func splitDataURI(uri string) (mime, data string, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", "", false
	}
	mime, data, found = strings.Cut(rest, ";base64,")
	if !found || mime == "" {
		return "", "", false
	}
	return mime, data, true
}

func parseGeminiReply(raw []byte) (string, error) {
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", apperrors.ErrUpstream, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 || result.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: response missing candidate text", apperrors.ErrUpstream)
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func parseOpenAIReply(raw []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", apperrors.ErrUpstream, err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: response missing message content", apperrors.ErrUpstream)
	}
	return result.Choices[0].Message.Content, nil
}

func upstreamMessage(raw []byte, status int) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return fmt.Sprintf("HTTP status %d", status)
}
