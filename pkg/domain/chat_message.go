package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single conversation turn. Content is either a plain
// string or an ordered []Content for multimodal turns.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

const (
	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

func TextMessage(role, text string) ChatMessage {
	return ChatMessage{Role: role, Content: text}
}

func ImageContent(dataURI string) Content {
	return Content{Type: ContentTypeImageURL, ImageURL: &ImageURL{URL: dataURI}}
}

func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}
