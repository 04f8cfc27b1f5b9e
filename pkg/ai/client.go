package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/yqyati/windy/pkg/domain"
)

const (
	completionsPath = "/chat/completions"

	DefaultTimeout = 60 * time.Second
)

// Client talks to an OpenAI-compatible chat completion endpoint. It holds no
// state across calls other than the configuration, which is replaced
// atomically so concurrent sends never see a torn mix of old and new values.
type Client struct {
	hc       *http.Client
	validate *validator.Validate

	mu       sync.RWMutex
	settings domain.Settings
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		hc:       &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// Configure validates and stores the endpoint settings for subsequent calls.
// An empty model falls back to the default; a change takes effect on the
// next completion call, never mid-flight.
func (c *Client) Configure(settings domain.Settings) error {
	settings.Model, _ = lo.Coalesce(settings.Model, domain.DefaultModel)

	if err := c.validate.Struct(settings); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return &domain.ConfigError{
				Reason: fmt.Sprintf("field %s failed %q check", vErrs[0].Field(), vErrs[0].Tag()),
			}
		}
		return &domain.ConfigError{Reason: err.Error()}
	}

	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	return nil
}

// Settings returns the configuration the next completion call will use.
func (c *Client) Settings() domain.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// CreateChatCompletion issues exactly one POST for the given conversation and
// returns the assistant reply. Failures come back classified: ConfigError
// before any I/O, NetworkError/TimeoutError at the transport, HTTPStatusError
// for non-2xx, ParseError for a body that does not match the expected shape.
func (c *Client) CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage) (domain.ChatResponse, error) {
	c.mu.RLock()
	settings := c.settings
	c.mu.RUnlock()

	if settings.BaseURL == "" || settings.APIKey == "" {
		return domain.ChatResponse{}, &domain.ConfigError{Reason: "baseUrl and apiKey must be set"}
	}

	if !hasUserMessage(messages) {
		return domain.ChatResponse{}, domain.ErrNoUserMessage
	}

	request := chatCompletionsRequest{
		Model:       settings.Model,
		Temperature: settings.Temperature,
		Messages:    messages,
	}

	slog.DebugContext(ctx, "Calling chat completion endpoint",
		"model", settings.Model, "messagesCount", len(messages))

	return c.sendChatCompletionRequest(ctx, settings, &request)
}

// CreateChatCompletionWithImage appends an image_url content part to the last
// user turn (or a new user turn) before delegating to CreateChatCompletion.
// The caller's slice is never mutated.
func (c *Client) CreateChatCompletionWithImage(ctx context.Context, messages []domain.ChatMessage, imageDataURI string) (domain.ChatResponse, error) {
	return c.CreateChatCompletion(ctx, WithImagePart(messages, imageDataURI))
}

// WithImagePart returns a copy of the conversation whose last user turn
// carries an extra image_url part, preserving existing part order. A text
// content string becomes a [text, image] part list. When the conversation is
// empty or ends with a non-user turn, a new user turn holds the image alone.
func WithImagePart(messages []domain.ChatMessage, imageDataURI string) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(messages))
	copy(out, messages)

	imagePart := domain.ImageContent(imageDataURI)

	last := len(out) - 1
	if last < 0 || out[last].Role != domain.RoleUser {
		return append(out, domain.ChatMessage{
			Role:    domain.RoleUser,
			Content: []domain.Content{imagePart},
		})
	}

	switch content := out[last].Content.(type) {
	case string:
		parts := []domain.Content{}
		if content != "" {
			parts = append(parts, domain.TextContent(content))
		}
		out[last].Content = append(parts, imagePart)
	case []domain.Content:
		parts := make([]domain.Content, len(content), len(content)+1)
		copy(parts, content)
		out[last].Content = append(parts, imagePart)
	default:
		out[last].Content = []domain.Content{imagePart}
	}

	return out
}

func hasUserMessage(messages []domain.ChatMessage) bool {
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			return true
		}
	}
	return false
}

func (c *Client) sendChatCompletionRequest(ctx context.Context, settings domain.Settings, request *chatCompletionsRequest) (domain.ChatResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := strings.TrimRight(settings.BaseURL, "/") + completionsPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return domain.ChatResponse{}, &domain.ConfigError{Reason: "building request: " + err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+settings.APIKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.ChatResponse{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.ChatResponse{}, &domain.HTTPStatusError{Code: resp.StatusCode, Body: string(bodyBytes)}
	}

	var chatResponse chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResponse); err != nil {
		return domain.ChatResponse{}, &domain.ParseError{Reason: "decoding response body", Err: err}
	}

	if len(chatResponse.Choices) == 0 {
		return domain.ChatResponse{}, &domain.ParseError{Reason: "no choices in response"}
	}

	choice := chatResponse.Choices[0]

	return domain.ChatResponse{
		Text:         choice.Message.Content,
		FinishReason: domain.ParseFinishReason(choice.FinishReason),
		Usage:        chatResponse.Usage,
	}, nil
}

func classifyTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &domain.TimeoutError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Err: err}
	}
	return &domain.NetworkError{Err: err}
}
