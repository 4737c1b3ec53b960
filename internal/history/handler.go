package history

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quizzer/backend/internal/middleware"
	"github.com/quizzer/backend/internal/models"
	"github.com/quizzer/backend/internal/quiz"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	page := intQueryParam(query, "page", 1)
	pageSize := intQueryParam(query, "page_size", 100)

	records, total, err := h.store.ListByUser(userID, page, pageSize)
	if err != nil {
		log.Printf("[handler] List history error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get history"})
		return
	}

	if records == nil {
		records = []models.QuizHistoryRecord{}
	}
	writeJSON(w, http.StatusOK, models.HistoryListResponse{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get renders one owned record as results: score, percentage, and
// per-question correctness.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid history ID"})
		return
	}

	record, err := h.store.GetByID(userID, id)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "History record not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] Get history error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get history record"})
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryDetailResponse{
		Record:     *record,
		Percentage: quiz.Percentage(record.Score, record.TotalQuestions),
		Results:    quiz.Results(record.Questions, record.Answers),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return defaultVal
	}
	return v
}
