package repository

import (
	"testing"

	"github.com/yqyati/windy/pkg/domain"
)

func TestConversationRepositoryAppendAndClear(t *testing.T) {
	repo := NewConversationRepository("", 0)

	repo.Append(domain.TextMessage(domain.RoleUser, "hi"))
	repo.Append(domain.TextMessage(domain.RoleAssistant, "hello"))

	messages := repo.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "hi" || messages[1].Content != "hello" {
		t.Errorf("unexpected order: %+v", messages)
	}

	repo.Clear()
	if got := repo.Messages(); len(got) != 0 {
		t.Errorf("expected empty history after clear, got %d messages", len(got))
	}
}

func TestConversationRepositorySystemPromptPinned(t *testing.T) {
	repo := NewConversationRepository("you are windy", 2)

	repo.Append(domain.TextMessage(domain.RoleUser, "one"))
	repo.Append(domain.TextMessage(domain.RoleAssistant, "two"))
	repo.Append(domain.TextMessage(domain.RoleUser, "three"))

	messages := repo.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected system prompt plus 2 trimmed messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleSystem || messages[0].Content != "you are windy" {
		t.Errorf("expected pinned system prompt first, got %+v", messages[0])
	}
	if messages[1].Content != "two" || messages[2].Content != "three" {
		t.Errorf("expected oldest turn dropped, got %+v", messages[1:])
	}

	repo.Clear()
	messages = repo.Messages()
	if len(messages) != 1 || messages[0].Role != domain.RoleSystem {
		t.Errorf("expected system prompt to survive clear, got %+v", messages)
	}
}

func TestConversationRepositoryRemoveLast(t *testing.T) {
	repo := NewConversationRepository("you are windy", 0)

	repo.Append(domain.TextMessage(domain.RoleUser, "answered"))
	repo.Append(domain.TextMessage(domain.RoleAssistant, "reply"))
	repo.Append(domain.TextMessage(domain.RoleUser, "failed send"))

	repo.RemoveLast()

	messages := repo.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected system prompt plus 2 messages, got %d", len(messages))
	}
	if messages[2].Content != "reply" {
		t.Errorf("expected failed turn removed, got %+v", messages[2])
	}

	// draining past empty must not touch the pinned system prompt
	repo.RemoveLast()
	repo.RemoveLast()
	repo.RemoveLast()

	messages = repo.Messages()
	if len(messages) != 1 || messages[0].Role != domain.RoleSystem {
		t.Errorf("expected only the system prompt left, got %+v", messages)
	}
}

func TestConversationRepositoryMessagesReturnsCopy(t *testing.T) {
	repo := NewConversationRepository("", 0)
	repo.Append(domain.TextMessage(domain.RoleUser, "hi"))

	messages := repo.Messages()
	messages[0].Content = "mutated"

	if got := repo.Messages()[0].Content; got != "hi" {
		t.Errorf("internal history mutated through returned slice: %v", got)
	}
}
