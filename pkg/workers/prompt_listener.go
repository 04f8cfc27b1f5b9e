package workers

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/yqyati/windy/pkg/domain"
	"github.com/yqyati/windy/pkg/logger"
)

type ChatService interface {
	GenerateFromText(ctx context.Context, prompt string)
	GenerateFromImage(ctx context.Context, prompt, imageDataURI string)
}

type Renderer interface {
	Render(response domain.Response)
}

// promptListener bridges the UI and the chat service: prompts come in on one
// channel, the blocking completion call runs in a goroutine off the UI loop,
// and results flow back to the renderer.
type promptListener struct {
	service    ChatService
	renderer   Renderer
	promptCh   <-chan domain.Prompt
	responseCh <-chan domain.Response
	requestID  atomic.Int64
	wg         sync.WaitGroup
}

func NewPromptListener(
	service ChatService,
	renderer Renderer,
	promptCh <-chan domain.Prompt,
	responseCh <-chan domain.Response,
) (*promptListener, error) {
	return &promptListener{
		service:    service,
		renderer:   renderer,
		promptCh:   promptCh,
		responseCh: responseCh,
	}, nil
}

func (p *promptListener) Name() string { return "prompt_listener_worker" }

func (p *promptListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", p.Name())
	defer slog.Info("Worker stopped", "name", p.Name())

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return nil
		case prompt := <-p.promptCh:
			p.wg.Add(1)
			go func(prompt domain.Prompt) {
				defer p.wg.Done()
				p.processPrompt(ctx, prompt)
			}(prompt)
		case response := <-p.responseCh:
			p.renderer.Render(response)
		}
	}
}

func (p *promptListener) processPrompt(ctx context.Context, prompt domain.Prompt) {
	ctx = logger.ContextWithRequestID(ctx, p.requestID.Add(1))

	slog.InfoContext(ctx, "Processing prompt", "hasImage", prompt.ImageDataURI != "")

	if prompt.ImageDataURI != "" {
		p.service.GenerateFromImage(ctx, prompt.Text, prompt.ImageDataURI)
		return
	}
	p.service.GenerateFromText(ctx, prompt.Text)
}
