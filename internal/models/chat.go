package models

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is held only for the current chat exchange; the server keeps
// no conversation memory between calls.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type PDFChatRequest struct {
	DocumentText string `json:"document_text"`
	Question     string `json:"question"`
}

type PDFExtractResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}
