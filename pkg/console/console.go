package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/yqyati/windy/pkg/domain"
	"github.com/yqyati/windy/pkg/logger"
)

// ErrInputClosed reports that the input stream ended (Ctrl-D). It shuts the
// worker group down but is not a failure.
var ErrInputClosed = errors.New("input closed")

type Capturer interface {
	CaptureToDataURI(display int) (string, error)
}

type SettingsStore interface {
	Get() domain.Config
	Save(config domain.Config) error
}

type Configurator interface {
	Configure(settings domain.Settings) error
}

type HistoryCleaner interface {
	ClearHistory(ctx context.Context)
}

// Console is the line-oriented stand-in for the desktop chat window: it
// collects prompts, attaches screenshots, edits settings, and renders
// assistant replies and classified errors.
type Console struct {
	in           io.Reader
	out          io.Writer
	capturer     Capturer
	store        SettingsStore
	configurator Configurator
	cleaner      HistoryCleaner
	promptCh     chan<- domain.Prompt

	pendingImage string
}

func New(
	in io.Reader,
	out io.Writer,
	capturer Capturer,
	store SettingsStore,
	configurator Configurator,
	cleaner HistoryCleaner,
	promptCh chan<- domain.Prompt,
) *Console {
	return &Console{
		in:           in,
		out:          out,
		capturer:     capturer,
		store:        store,
		configurator: configurator,
		cleaner:      cleaner,
		promptCh:     promptCh,
	}
}

func (c *Console) Name() string { return "console_worker" }

func (c *Console) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", c.Name())
	defer slog.Info("Worker stopped", "name", c.Name())

	fmt.Fprintln(c.out, "Windy is listening. Type a message, or /help for commands.")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				return ErrInputClosed
			}
			c.handleLine(ctx, strings.TrimSpace(line))
		}
	}
}

func (c *Console) handleLine(ctx context.Context, line string) {
	switch {
	case line == "":
		return
	case line == "/help":
		c.printHelp()
	case line == "/screenshot":
		c.attachScreenshot()
	case line == "/clear":
		c.cleaner.ClearHistory(ctx)
	case strings.HasPrefix(line, "/set "):
		c.applySetting(strings.TrimPrefix(line, "/set "))
	case strings.HasPrefix(line, "/"):
		fmt.Fprintf(c.out, "Unknown command %q. Try /help.\n", line)
	default:
		c.promptCh <- domain.Prompt{Text: line, ImageDataURI: c.pendingImage}
		c.pendingImage = ""
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `Commands:
  /screenshot            capture the screen and attach it to the next message
  /clear                 forget the conversation history
  /set <field> <value>   update settings (baseurl, apikey, model, temperature)
  /help                  show this message`)
}

func (c *Console) attachScreenshot() {
	dataURI, err := c.capturer.CaptureToDataURI(0)
	if err != nil {
		slog.Error("Capturing screenshot", logger.Err(err))
		fmt.Fprintln(c.out, "Could not capture the screen:", err)
		return
	}
	c.pendingImage = dataURI
	fmt.Fprintln(c.out, "Screenshot attached to your next message.")
}

// applySetting updates one field, persists the whole config and swaps it into
// the client atomically. An invalid value leaves the old config in effect.
func (c *Console) applySetting(args string) {
	field, value, ok := strings.Cut(args, " ")
	if !ok {
		fmt.Fprintln(c.out, "Usage: /set <field> <value>")
		return
	}
	value = strings.TrimSpace(value)

	config := c.store.Get()
	switch strings.ToLower(field) {
	case "baseurl":
		config.AI.BaseURL = value
	case "apikey":
		config.AI.APIKey = value
	case "model":
		config.AI.Model = value
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid temperature %q.\n", value)
			return
		}
		config.AI.Temperature = t
	default:
		fmt.Fprintf(c.out, "Unknown setting %q. Fields: baseurl, apikey, model, temperature.\n", field)
		return
	}

	if err := c.configurator.Configure(config.AI); err != nil {
		fmt.Fprintln(c.out, userMessage(err))
		return
	}
	if err := c.store.Save(config); err != nil {
		slog.Error("Saving settings", logger.Err(err))
		fmt.Fprintln(c.out, "Could not save settings:", err)
		return
	}
	fmt.Fprintf(c.out, "Setting %s updated.\n", strings.ToLower(field))
}

// Render prints an assistant reply or a per-class error message.
func (c *Console) Render(response domain.Response) {
	if response.Err != nil {
		fmt.Fprintln(c.out, color.New(color.FgRed).Sprint(userMessage(response.Err)))
		return
	}
	fmt.Fprintln(c.out, color.New(color.FgGreen).Sprint("🤖 ")+response.Text)
}

// userMessage maps a classified error to something a person can act on,
// never a raw stack trace.
func userMessage(err error) string {
	var (
		configErr  *domain.ConfigError
		networkErr *domain.NetworkError
		timeoutErr *domain.TimeoutError
		statusErr  *domain.HTTPStatusError
		parseErr   *domain.ParseError
	)

	switch {
	case errors.As(err, &configErr):
		return "Configuration incomplete: " + configErr.Reason + ". Use /set to fix it."
	case errors.As(err, &timeoutErr):
		return "The request timed out. The model may be busy; try again."
	case errors.As(err, &networkErr):
		return "Could not reach the endpoint. Check your network and the base URL."
	case errors.As(err, &statusErr):
		switch statusErr.Code {
		case 401, 403:
			return "The endpoint rejected the request. Check your API key."
		case 429:
			return "Rate limited by the endpoint. Wait a moment and try again."
		default:
			return fmt.Sprintf("The endpoint returned HTTP %d: %s", statusErr.Code, statusErr.Body)
		}
	case errors.As(err, &parseErr):
		return "The endpoint sent an unexpected reply. Check that the base URL points at a chat-completion API."
	case errors.Is(err, domain.ErrNoUserMessage):
		return "Nothing to send yet. Type a message first."
	default:
		return "Something went wrong: " + err.Error()
	}
}
