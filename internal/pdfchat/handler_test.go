package pdfchat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quizzer/backend/internal/models"
)

func TestChatHandler_Validation(t *testing.T) {
	h := NewHandler(NewChatService(&stubLLM{content: "ok"}))

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing document", `{"question":"What is this?"}`},
		{"missing question", `{"document_text":"the doc"}`},
		{"blank question", `{"document_text":"the doc","question":"   "}`},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/v1/pdf/chat", strings.NewReader(tt.body))
		h.Chat(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, w.Code)
		}
	}
}

func TestChatHandler_ReturnsAssistantMessage(t *testing.T) {
	h := NewHandler(NewChatService(&stubLLM{content: "It covers thermodynamics."}))

	body := `{"document_text":"A treatise on thermodynamics.","question":"What is this about?"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/pdf/chat", strings.NewReader(body))
	h.Chat(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var msg models.ChatMessage
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.Role != models.RoleAssistant || msg.Content != "It covers thermodynamics." {
		t.Errorf("message = %+v, want assistant reply", msg)
	}
}

func TestExtractHandler_RejectsMissingFile(t *testing.T) {
	h := NewHandler(NewChatService(&stubLLM{content: "ok"}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/pdf/extract", strings.NewReader("not multipart"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	h.Extract(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
