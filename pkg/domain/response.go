package domain

type FinishReason string

const (
	FinishReasonStop    FinishReason = "stop"
	FinishReasonLength  FinishReason = "length"
	FinishReasonError   FinishReason = "error"
	FinishReasonUnknown FinishReason = "unknown"
)

// ParseFinishReason maps the remote model's finish_reason to a known value,
// falling back to FinishReasonUnknown rather than failing the call.
func ParseFinishReason(s string) FinishReason {
	switch FinishReason(s) {
	case FinishReasonStop, FinishReasonLength, FinishReasonError:
		return FinishReason(s)
	default:
		return FinishReasonUnknown
	}
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the assistant reply extracted from a completion call.
type ChatResponse struct {
	Text         string
	FinishReason FinishReason
	Usage        *Usage
}

// Response is what travels back to the UI over the response channel.
// Exactly one of Text or Err is meaningful.
type Response struct {
	Text string
	Err  error
}

// Prompt is one user submission collected by the UI.
type Prompt struct {
	Text         string
	ImageDataURI string
}
