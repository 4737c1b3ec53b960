package resources

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/quizzer/backend/internal/middleware"
	"github.com/quizzer/backend/internal/models"
)

// Upload size caps: 25MB for the PDF, 2MB for the thumbnail.
const (
	maxFileBytes      = 25 << 20
	maxThumbnailBytes = 2 << 20
)

type Handler struct {
	store   *Store
	storage ObjectStorage
	thumbs  *thumbnailCache
}

func NewHandler(store *Store, storage ObjectStorage) *Handler {
	return &Handler{store: store, storage: storage, thumbs: newThumbnailCache()}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.store.ListAll()
	if err != nil {
		log.Printf("[handler] List resources error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list resources"})
		return
	}

	if resources == nil {
		resources = []models.Resource{}
	}
	writeJSON(w, http.StatusOK, models.ResourceListResponse{
		Resources: resources,
		Total:     len(resources),
	})
}

// Upload validates both files before any storage call: primary file must be
// a PDF, optional thumbnail must be an image.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFileBytes+maxThumbnailBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	if name == "" || description == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Name and description are required"})
		return
	}

	fileData, fileName, err := readFormFile(r, "file", maxFileBytes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "A PDF file is required"})
		return
	}
	if !isPDF(fileData) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Only PDF files are allowed"})
		return
	}

	var thumbData []byte
	var thumbName, thumbType string
	if thumbData, thumbName, err = readFormFile(r, "thumbnail", maxThumbnailBytes); err == nil {
		thumbType = http.DetectContentType(thumbData)
		if !strings.HasPrefix(thumbType, "image/") {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Only image files are allowed for thumbnails"})
			return
		}
	} else {
		thumbData = nil
	}

	// Keys are namespaced by user id and upload timestamp.
	now := time.Now().UnixMilli()
	fileKey := fmt.Sprintf("%d/%d-%s", userID, now, sanitizeFilename(fileName))

	fileURL, err := h.storage.Upload(r.Context(), fileKey, "application/pdf",
		bytes.NewReader(fileData), int64(len(fileData)))
	if err != nil {
		log.Printf("[handler] Upload file error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Error uploading resource. Please try again."})
		return
	}

	var thumbnailURL *string
	if thumbData != nil {
		thumbKey := fmt.Sprintf("%d/thumbnails/%d-%s", userID, now, sanitizeFilename(thumbName))
		url, err := h.storage.Upload(r.Context(), thumbKey, thumbType,
			bytes.NewReader(thumbData), int64(len(thumbData)))
		if err != nil {
			log.Printf("[handler] Upload thumbnail error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Error uploading resource. Please try again."})
			return
		}
		thumbnailURL = &url
	}

	resource := models.Resource{
		UserID:       userID,
		Name:         name,
		Description:  description,
		FileURL:      fileURL,
		ThumbnailURL: thumbnailURL,
	}
	if err := h.store.Insert(&resource); err != nil {
		log.Printf("[handler] Insert resource error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Error uploading resource. Please try again."})
		return
	}

	writeJSON(w, http.StatusCreated, resource)
}

// Thumbnail redirects to the stored thumbnail when one exists, otherwise
// serves a lazily rendered placeholder cached in memory only.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid resource ID"})
		return
	}

	resource, err := h.store.GetByID(id)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Resource not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] Thumbnail lookup error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get resource"})
		return
	}

	if resource.ThumbnailURL != nil {
		http.Redirect(w, r, *resource.ThumbnailURL, http.StatusFound)
		return
	}

	img, ok := h.thumbs.get(id)
	if !ok {
		img, err = RenderPlaceholder(resource.Name)
		if err != nil {
			log.Printf("[handler] Render thumbnail error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to render thumbnail"})
			return
		}
		h.thumbs.put(id, img)
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

func readFormFile(r *http.Request, field string, maxBytes int64) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("file %q exceeds %d bytes", header.Filename, maxBytes)
	}
	return data, header.Filename, nil
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var result []byte
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			result = append(result, byte(c))
		case c == '.' || c == '-' || c == '_':
			result = append(result, byte(c))
		default:
			result = append(result, '_')
		}
	}
	if len(result) == 0 {
		return "file"
	}
	return string(result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
