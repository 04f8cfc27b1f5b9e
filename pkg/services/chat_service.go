package services

import (
	"context"
	"log/slog"

	"github.com/yqyati/windy/pkg/domain"
)

type AIClient interface {
	CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage) (domain.ChatResponse, error)
	CreateChatCompletionWithImage(ctx context.Context, messages []domain.ChatMessage, imageDataURI string) (domain.ChatResponse, error)
}

type ConversationRepository interface {
	Append(msg domain.ChatMessage)
	RemoveLast()
	Messages() []domain.ChatMessage
	Clear()
}

type chatService struct {
	aiClient   AIClient
	convRepo   ConversationRepository
	responseCh chan<- domain.Response
}

func NewChatService(
	aiClient AIClient,
	convRepo ConversationRepository,
	responseCh chan<- domain.Response,
) *chatService {
	return &chatService{
		aiClient:   aiClient,
		convRepo:   convRepo,
		responseCh: responseCh,
	}
}

// GenerateFromText appends the user turn to the conversation, requests a
// completion and delivers the reply (or the classified error) to the
// response channel.
func (s *chatService) GenerateFromText(ctx context.Context, prompt string) {
	slog.InfoContext(ctx, "Generating response", "promptLength", len(prompt))

	s.convRepo.Append(domain.TextMessage(domain.RoleUser, prompt))

	chatResponse, err := s.aiClient.CreateChatCompletion(ctx, s.convRepo.Messages())
	s.deliver(ctx, chatResponse, err)
}

// GenerateFromImage behaves like GenerateFromText but the wire request's last
// user turn additionally carries the image as a data URI part. The stored
// history keeps only the text, so one screenshot does not bloat every
// subsequent request.
func (s *chatService) GenerateFromImage(ctx context.Context, prompt, imageDataURI string) {
	slog.InfoContext(ctx, "Generating response with image",
		"promptLength", len(prompt), "imageDataURISize", len(imageDataURI))

	s.convRepo.Append(domain.TextMessage(domain.RoleUser, prompt))

	chatResponse, err := s.aiClient.CreateChatCompletionWithImage(ctx, s.convRepo.Messages(), imageDataURI)
	s.deliver(ctx, chatResponse, err)
}

func (s *chatService) ClearHistory(ctx context.Context) {
	s.convRepo.Clear()
	s.send(ctx, domain.Response{Text: "History cleared. Start a new chat."})
}

func (s *chatService) deliver(ctx context.Context, chatResponse domain.ChatResponse, err error) {
	if err != nil {
		// roll back the unanswered user turn so a retry does not send it twice
		s.convRepo.RemoveLast()
		s.send(ctx, domain.Response{Err: err})
		return
	}

	slog.DebugContext(ctx, "Completion received",
		"finishReason", chatResponse.FinishReason, "textLength", len(chatResponse.Text))
	if chatResponse.Usage != nil {
		slog.DebugContext(ctx, "Token usage",
			"prompt", chatResponse.Usage.PromptTokens,
			"completion", chatResponse.Usage.CompletionTokens,
			"total", chatResponse.Usage.TotalTokens)
	}

	s.convRepo.Append(domain.TextMessage(domain.RoleAssistant, chatResponse.Text))
	s.send(ctx, domain.Response{Text: chatResponse.Text})
}

// send must not block past shutdown: once the context is canceled nobody is
// draining the response channel anymore.
func (s *chatService) send(ctx context.Context, response domain.Response) {
	select {
	case s.responseCh <- response:
	case <-ctx.Done():
		slog.DebugContext(ctx, "Dropping response, context canceled")
	}
}
