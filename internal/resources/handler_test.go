package resources

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quizzer/backend/internal/middleware"
)

// recordingStorage counts uploads so tests can assert that validation
// failures never reach object storage.
type recordingStorage struct {
	keys []string
}

func (s *recordingStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	s.keys = append(s.keys, key)
	return "http://storage.test/resources/" + key, nil
}

func multipartUpload(t *testing.T, name, description, filename string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if name != "" {
		w.WriteField("name", name)
	}
	if description != "" {
		w.WriteField("description", description)
	}
	if fileData != nil {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(fileData)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func uploadRequest(t *testing.T, name, description, filename string, fileData []byte) *http.Request {
	t.Helper()
	body, contentType := multipartUpload(t, name, description, filename, fileData)
	r := httptest.NewRequest("POST", "/api/v1/resources", body)
	r.Header.Set("Content-Type", contentType)
	return middleware.WithUserID(r, 42)
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	storage := &recordingStorage{}
	h := NewHandler(NewStore(nil), storage)

	w := httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "Lecture notes", "Week 3 slides", "notes.pdf",
		[]byte("just plain text pretending to be a pdf")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(storage.keys) != 0 {
		t.Errorf("storage uploads = %v, want none for a rejected file", storage.keys)
	}
}

func TestUpload_RequiresNameAndDescription(t *testing.T) {
	storage := &recordingStorage{}
	h := NewHandler(NewStore(nil), storage)

	pdf := []byte("%PDF-1.4 minimal")

	w := httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "", "has description", "doc.pdf", pdf))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "has name", "", "doc.pdf", pdf))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing description: status = %d, want 400", w.Code)
	}

	if len(storage.keys) != 0 {
		t.Errorf("storage uploads = %v, want none", storage.keys)
	}
}

func TestUpload_RequiresFile(t *testing.T) {
	storage := &recordingStorage{}
	h := NewHandler(NewStore(nil), storage)

	w := httptest.NewRecorder()
	h.Upload(w, uploadRequest(t, "Lecture notes", "Week 3 slides", "", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpload_RequiresAuth(t *testing.T) {
	storage := &recordingStorage{}
	h := NewHandler(NewStore(nil), storage)

	body, contentType := multipartUpload(t, "Lecture notes", "Week 3 slides", "doc.pdf",
		[]byte("%PDF-1.4 minimal"))
	r := httptest.NewRequest("POST", "/api/v1/resources", body)
	r.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	h.Upload(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notes.pdf", "notes.pdf"},
		{"my notes (final).pdf", "my_notes__final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{"", "file"},
		{"週報.pdf", "__.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPlaceholder(t *testing.T) {
	img, err := RenderPlaceholder("Organic Chemistry Notes, Volume 2")
	if err != nil {
		t.Fatalf("RenderPlaceholder: %v", err)
	}
	if len(img) == 0 {
		t.Fatal("expected PNG bytes")
	}
	// PNG magic bytes
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Errorf("output does not look like a PNG: % x", img[:8])
	}
}

func TestThumbnailCache(t *testing.T) {
	cache := newThumbnailCache()

	if _, ok := cache.get(1); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.put(1, []byte("png-bytes"))
	img, ok := cache.get(1)
	if !ok || string(img) != "png-bytes" {
		t.Errorf("get(1) = %q, %v; want cached bytes", img, ok)
	}

	if _, ok := cache.get(2); ok {
		t.Error("expected miss for a different id")
	}
}
