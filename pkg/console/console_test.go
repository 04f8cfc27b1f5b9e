package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yqyati/windy/pkg/domain"
)

type fakeCapturer struct {
	dataURI string
	err     error
}

func (f *fakeCapturer) CaptureToDataURI(int) (string, error) { return f.dataURI, f.err }

type fakeStore struct {
	config domain.Config
	saved  *domain.Config
}

func (f *fakeStore) Get() domain.Config { return f.config }
func (f *fakeStore) Save(config domain.Config) error {
	f.saved = &config
	f.config = config
	return nil
}

type fakeConfigurator struct {
	got *domain.Settings
	err error
}

func (f *fakeConfigurator) Configure(settings domain.Settings) error {
	f.got = &settings
	return f.err
}

type fakeCleaner struct {
	called bool
}

func (f *fakeCleaner) ClearHistory(context.Context) { f.called = true }

func newTestConsole(promptCh chan domain.Prompt) (*Console, *fakeCapturer, *fakeStore, *fakeConfigurator, *fakeCleaner, *bytes.Buffer) {
	capturer := &fakeCapturer{dataURI: "data:image/jpeg;base64,AAAA"}
	store := &fakeStore{config: domain.DefaultConfig()}
	configurator := &fakeConfigurator{}
	cleaner := &fakeCleaner{}
	out := &bytes.Buffer{}
	c := New(strings.NewReader(""), out, capturer, store, configurator, cleaner, promptCh)
	return c, capturer, store, configurator, cleaner, out
}

func TestHandleLinePrompt(t *testing.T) {
	promptCh := make(chan domain.Prompt, 1)
	c, _, _, _, _, _ := newTestConsole(promptCh)

	c.handleLine(context.Background(), "Hello")

	prompt := <-promptCh
	if prompt.Text != "Hello" || prompt.ImageDataURI != "" {
		t.Errorf("unexpected prompt: %+v", prompt)
	}
}

func TestHandleLineScreenshotAttachesOnce(t *testing.T) {
	promptCh := make(chan domain.Prompt, 2)
	c, _, _, _, _, _ := newTestConsole(promptCh)

	c.handleLine(context.Background(), "/screenshot")
	c.handleLine(context.Background(), "what is on my screen")
	c.handleLine(context.Background(), "and now?")

	first := <-promptCh
	if first.ImageDataURI != "data:image/jpeg;base64,AAAA" {
		t.Errorf("expected screenshot attached to first prompt, got %+v", first)
	}
	second := <-promptCh
	if second.ImageDataURI != "" {
		t.Errorf("expected no image on second prompt, got %+v", second)
	}
}

func TestHandleLineClear(t *testing.T) {
	c, _, _, _, cleaner, _ := newTestConsole(make(chan domain.Prompt, 1))

	c.handleLine(context.Background(), "/clear")

	if !cleaner.called {
		t.Error("expected history cleaner invoked")
	}
}

func TestApplySetting(t *testing.T) {
	c, _, store, configurator, _, _ := newTestConsole(make(chan domain.Prompt, 1))

	c.handleLine(context.Background(), "/set apikey sk-new")

	if configurator.got == nil || configurator.got.APIKey != "sk-new" {
		t.Fatalf("expected client reconfigured with new key, got %+v", configurator.got)
	}
	if store.saved == nil || store.saved.AI.APIKey != "sk-new" {
		t.Errorf("expected settings persisted, got %+v", store.saved)
	}
}

func TestApplySettingInvalidKeepsOldConfig(t *testing.T) {
	c, _, store, configurator, _, _ := newTestConsole(make(chan domain.Prompt, 1))
	configurator.err = &domain.ConfigError{Reason: "field BaseURL failed \"url\" check"}

	c.handleLine(context.Background(), "/set baseurl nonsense")

	if store.saved != nil {
		t.Errorf("expected invalid settings not persisted, got %+v", store.saved)
	}
}

func TestApplySettingTemperature(t *testing.T) {
	c, _, store, _, _, out := newTestConsole(make(chan domain.Prompt, 1))

	c.handleLine(context.Background(), "/set temperature 1.5")
	if store.saved == nil || store.saved.AI.Temperature != 1.5 {
		t.Errorf("expected temperature saved, got %+v", store.saved)
	}

	c.handleLine(context.Background(), "/set temperature warm")
	if !strings.Contains(out.String(), "Invalid temperature") {
		t.Errorf("expected invalid temperature message, got %q", out.String())
	}
}

func TestUserMessagePerErrorClass(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"config", &domain.ConfigError{Reason: "baseUrl and apiKey must be set"}, "Configuration incomplete"},
		{"timeout", &domain.TimeoutError{Err: errors.New("deadline")}, "timed out"},
		{"network", &domain.NetworkError{Err: errors.New("refused")}, "Could not reach"},
		{"unauthorized", &domain.HTTPStatusError{Code: 401, Body: "nope"}, "Check your API key"},
		{"rate limited", &domain.HTTPStatusError{Code: 429, Body: "slow down"}, "Rate limited"},
		{"server error", &domain.HTTPStatusError{Code: 500, Body: "boom"}, "HTTP 500"},
		{"parse", &domain.ParseError{Reason: "no choices in response"}, "unexpected reply"},
		{"no user message", domain.ErrNoUserMessage, "Type a message"},
		{"unclassified", errors.New("odd"), "Something went wrong"},
	}

	for _, test := range tests {
		got := userMessage(test.err)
		if !strings.Contains(got, test.expected) {
			t.Errorf("%s: expected message containing %q, got %q", test.name, test.expected, got)
		}
	}
}

func TestStartReturnsErrInputClosedOnEOF(t *testing.T) {
	promptCh := make(chan domain.Prompt, 1)
	capturer := &fakeCapturer{}
	store := &fakeStore{config: domain.DefaultConfig()}
	out := &bytes.Buffer{}
	c := New(strings.NewReader("hello\n"), out, capturer, store, &fakeConfigurator{}, &fakeCleaner{}, promptCh)

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrInputClosed) {
			t.Errorf("expected ErrInputClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after input EOF")
	}

	prompt := <-promptCh
	if prompt.Text != "hello" {
		t.Errorf("expected line handled before EOF, got %+v", prompt)
	}
}

func TestRender(t *testing.T) {
	c, _, _, _, _, out := newTestConsole(make(chan domain.Prompt, 1))

	c.Render(domain.Response{Text: "Hi there"})
	if !strings.Contains(out.String(), "Hi there") {
		t.Errorf("expected reply rendered, got %q", out.String())
	}

	out.Reset()
	c.Render(domain.Response{Err: &domain.HTTPStatusError{Code: 401}})
	if !strings.Contains(out.String(), "Check your API key") {
		t.Errorf("expected error message rendered, got %q", out.String())
	}
}
