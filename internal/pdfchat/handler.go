package pdfchat

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/quizzer/backend/internal/models"
)

const maxPDFBytes = 25 << 20

type Handler struct {
	chat *ChatService
}

func NewHandler(chat *ChatService) *Handler {
	return &Handler{chat: chat}
}

// Extract accepts a multipart PDF upload and returns its extracted text.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPDFBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "A PDF file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read file"})
		return
	}

	text, pages, err := ExtractText(data)
	if err != nil {
		log.Printf("[handler] Extract error: %v", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Error processing PDF. Please try again."})
		return
	}

	writeJSON(w, http.StatusOK, models.PDFExtractResponse{Text: text, Pages: pages})
}

// Chat answers one question against the supplied document text.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.PDFChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.DocumentText == "" || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "document_text and question are required"})
		return
	}

	message := h.chat.Answer(r.Context(), req.DocumentText, req.Question)
	writeJSON(w, http.StatusOK, message)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
