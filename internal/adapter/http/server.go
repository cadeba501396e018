package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cwygoda/mediagrabber/internal/domain"
)

// Server is the HTTP adapter for the download service.
type Server struct {
	svc    *domain.Service
	mux    *http.ServeMux
	server *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(svc *domain.Service, addr string) *Server {
	s := &Server{
		svc: svc,
		mux: http.NewServeMux(),
	}
	s.routes()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/youtube/download", s.handleYouTubeDownload)
	s.mux.HandleFunc("POST /api/instagram/download", s.handleInstagramDownload)
	s.mux.HandleFunc("GET /api/download/{id}/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/download/{id}/file", s.handleFile)
	s.mux.HandleFunc("GET /api/user/{user_id}/downloads", s.handleUserDownloads)
	s.mux.HandleFunc("DELETE /api/download/{id}", s.handleDelete)
}

// downloadRequest is the request body for the download endpoints.
type downloadRequest struct {
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	Quality   string `json:"quality"`
	UserID    string `json:"user_id"`
}

// downloadResponse is the JSON response for accepted downloads.
type downloadResponse struct {
	Success    bool   `json:"success"`
	DownloadID string `json:"download_id"`
	Message    string `json:"message,omitempty"`
}

// recordResponse is the JSON serialization of a download record.
type recordResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Platform     string `json:"platform"`
	URL          string `json:"url"`
	MediaType    string `json:"media_type"`
	Quality      string `json:"quality"`
	Status       string `json:"status"`
	Filename     string `json:"filename,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// errorResponse is the JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "MediaGrabber API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleYouTubeDownload(w http.ResponseWriter, r *http.Request) {
	s.handleDownload(w, r, domain.PlatformYouTube)
}

func (s *Server) handleInstagramDownload(w http.ResponseWriter, r *http.Request) {
	s.handleDownload(w, r, domain.PlatformInstagram)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, platform domain.Platform) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	record, err := s.svc.Submit(r.Context(), domain.SubmitRequest{
		UserID:    req.UserID,
		Platform:  platform,
		URL:       req.URL,
		MediaType: domain.MediaType(req.MediaType),
		Quality:   req.Quality,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusAccepted, downloadResponse{
		Success:    true,
		DownloadID: record.ID,
		Message:    "Download started",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	record, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recordToResponse(record))
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	f, record, err := s.svc.OpenFile(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	http.ServeContent(w, r, record.Filename, info.ModTime(), f)
}

func (s *Server) handleUserDownloads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := s.svc.List(r.Context(), r.PathValue("user_id"), limit, offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for i := range records {
		out = append(out, recordToResponse(&records[i]))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := s.svc.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Download deleted successfully"})
}

// writeServiceError maps domain sentinel errors to HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrInvalidMediaType):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQualityForbidden), errors.Is(err, domain.ErrStoriesNotSupported):
		s.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrRecordNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotReady):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQueueFull):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("internal error: %v", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func recordToResponse(record *domain.DownloadRecord) recordResponse {
	return recordResponse{
		ID:           record.ID,
		UserID:       record.UserID,
		Platform:     string(record.Platform),
		URL:          record.URL,
		MediaType:    string(record.MediaType),
		Quality:      record.Quality,
		Status:       string(record.Status),
		Filename:     record.Filename,
		FilePath:     record.FilePath,
		FileSize:     record.FileSize,
		ErrorMessage: record.ErrorMessage,
		CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
