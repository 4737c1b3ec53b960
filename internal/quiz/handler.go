package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/quizzer/backend/internal/middleware"
	"github.com/quizzer/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var config models.QuizConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if msg := validateConfig(&config); msg != "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	resp, err := h.service.Start(r.Context(), userID, config)
	if err != nil {
		log.Printf("[handler] Start error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to generate questions. Please try again."})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "answer is required"})
		return
	}

	accepted, completed, err := h.service.SubmitAnswer(r.Context(), userID, req.Answer)
	if errors.Is(err, ErrNoActiveSession) || errors.Is(err, ErrNotInProgress) {
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "No quiz in progress"})
		return
	}
	if err != nil {
		log.Printf("[handler] SubmitAnswer error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit answer"})
		return
	}

	if completed != nil {
		writeJSON(w, http.StatusOK, completed)
		return
	}
	writeJSON(w, http.StatusOK, accepted)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	snap, err := h.service.Resume(r.Context(), userID)
	if err != nil {
		log.Printf("[handler] GetSession error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load session"})
		return
	}
	if snap == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Reassess(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Reassess(r.Context(), userID)
	if errors.Is(err, ErrNoPriorConfig) {
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "No previous quiz to reassess"})
		return
	}
	if err != nil {
		log.Printf("[handler] Reassess error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to generate questions. Please try again."})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.service.Restart(r.Context(), userID); err != nil {
		log.Printf("[handler] Restart error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to restart"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "restarted"})
}

func validateConfig(config *models.QuizConfig) string {
	config.Topic = strings.TrimSpace(config.Topic)

	if !models.ValidDifficulties[config.Difficulty] {
		return "difficulty must be 'easy', 'medium', or 'hard'"
	}
	if config.NumQuestions < models.MinQuestions || config.NumQuestions > models.MaxQuestions {
		return "num_questions must be between 1 and 10"
	}
	if config.PDFContent == "" && config.Topic == "" {
		return "topic is required when no pdf_content is provided"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
