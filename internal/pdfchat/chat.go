package pdfchat

import (
	"context"
	"fmt"
	"log"

	"github.com/quizzer/backend/internal/llm"
	"github.com/quizzer/backend/internal/models"
)

// fallbackAnswer replaces the reply when the completion call fails; chat
// errors surface as an assistant message, never as a request error.
const fallbackAnswer = "Sorry, I encountered an error. Please try again."

// ChatService answers questions about an uploaded document. Each call
// rebuilds the system prompt from the full document text — no chunking, no
// retrieval, no conversation memory beyond what the caller re-supplies, so
// the whole document must fit the model's context window.
type ChatService struct {
	llm llm.Client
}

func NewChatService(client llm.Client) *ChatService {
	return &ChatService{llm: client}
}

func (s *ChatService) Answer(ctx context.Context, documentText, question string) models.ChatMessage {
	resp, err := s.llm.Complete(ctx, buildSystemPrompt(documentText), question)
	if err != nil {
		log.Printf("[pdfchat] completion failed: %v", err)
		return models.ChatMessage{Role: models.RoleAssistant, Content: fallbackAnswer}
	}

	content := resp.Content
	if content == "" {
		content = "I couldn't generate a response."
	}
	return models.ChatMessage{Role: models.RoleAssistant, Content: content}
}

func buildSystemPrompt(documentText string) string {
	return fmt.Sprintf(`You are a professional AI assistant specialized in analyzing PDF documents. Your responses should be:
1. Well-structured with clear sections when appropriate
2. Concise yet comprehensive
3. Professional in tone
4. Include relevant quotes from the document when applicable (in quotation marks)
5. Always cite specific sections or pages if you can identify them
6. If information is not found in the document, clearly state that

Use the following PDF content to answer questions:

%s

Format longer responses with appropriate Markdown:
- Use **bold** for emphasis
- Use bullet points for lists
- Use > for quotes from the document
- Use ### for section headers if needed`, documentText)
}
