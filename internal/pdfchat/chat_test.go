package pdfchat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/quizzer/backend/internal/llm"
	"github.com/quizzer/backend/internal/models"
)

type stubLLM struct {
	content    string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (*llm.Response, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content}, nil
}

func TestAnswer_EmbedsDocumentInSystemPrompt(t *testing.T) {
	stub := &stubLLM{content: "The document is about thermodynamics."}
	svc := NewChatService(stub)

	msg := svc.Answer(context.Background(), "A treatise on thermodynamics.", "What is this about?")

	if msg.Role != models.RoleAssistant {
		t.Errorf("role = %q, want assistant", msg.Role)
	}
	if msg.Content != "The document is about thermodynamics." {
		t.Errorf("content = %q, want the completion text", msg.Content)
	}

	if !strings.Contains(stub.lastSystem, "A treatise on thermodynamics.") {
		t.Error("system prompt should embed the document text")
	}
	if stub.lastUser != "What is this about?" {
		t.Errorf("user prompt = %q, want the question verbatim", stub.lastUser)
	}
}

func TestAnswer_FallbackOnFailure(t *testing.T) {
	stub := &stubLLM{err: fmt.Errorf("api unavailable")}
	svc := NewChatService(stub)

	msg := svc.Answer(context.Background(), "doc", "question")

	if msg.Role != models.RoleAssistant {
		t.Errorf("role = %q, want assistant", msg.Role)
	}
	if msg.Content != fallbackAnswer {
		t.Errorf("content = %q, want the fallback message", msg.Content)
	}
}

func TestAnswer_EmptyCompletion(t *testing.T) {
	stub := &stubLLM{content: ""}
	svc := NewChatService(stub)

	msg := svc.Answer(context.Background(), "doc", "question")
	if msg.Content == "" {
		t.Error("empty completions should be replaced with a visible message")
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.7 rest of file")) {
		t.Error("expected %PDF header to be recognized")
	}
	if IsPDF([]byte("GIF89a")) {
		t.Error("non-PDF bytes should be rejected")
	}
	if IsPDF(nil) {
		t.Error("nil input should be rejected")
	}
}

func TestExtractText_RejectsNonPDF(t *testing.T) {
	if _, _, err := ExtractText([]byte("plain text")); err == nil {
		t.Error("expected error for missing PDF header")
	}
	if _, _, err := ExtractText(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
