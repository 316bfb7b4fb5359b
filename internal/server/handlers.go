package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kotaeru/internal/chat"
	"github.com/hyperjump/kotaeru/internal/embedding"
	"github.com/hyperjump/kotaeru/internal/generate"
	"github.com/hyperjump/kotaeru/internal/indexer"
	"github.com/hyperjump/kotaeru/internal/models"
)

const maxUploadBytes = 32 << 20

type chatRequest struct {
	SessionID        string `json:"session_id,omitempty"`
	DeveloperMessage string `json:"developer_message,omitempty"`
	UserMessage      string `json:"user_message"`
	Model            string `json:"model,omitempty"`
	K                int    `json:"k,omitempty"`
	APIKey           string `json:"api_key"`
}

type ingestRequest struct {
	models.DocumentInput
	APIKey string `json:"api_key"`
}

type searchRequest struct {
	models.SearchRequest
	APIKey string `json:"api_key"`
}

// handleChat answers a question over the indexed documents and streams the
// reply as plain text, flushing each fragment as it arrives. A provider
// failure after streaming has begun can only truncate the body; it is logged
// server-side.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		s.respondError(w, http.StatusBadRequest, "user_message is required")
		return
	}
	s.logger.Debug("chat request",
		zap.String("session_id", req.SessionID),
		zap.String("model", req.Model),
		zap.Int("k", req.K))

	answer, err := s.chat.Ask(r.Context(), req.APIKey, chat.AskRequest{
		SessionID: req.SessionID,
		System:    req.DeveloperMessage,
		Question:  req.UserMessage,
		Model:     req.Model,
		K:         req.K,
	})
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	defer answer.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for answer.Next() {
		if _, err := io.WriteString(w, answer.Text()); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	if err := answer.Err(); err != nil {
		s.logger.Error("chat stream failed", zap.Error(err))
	}
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	s.logger.Debug("index document request", zap.String("id", req.ID), zap.String("title", req.Title))

	chunks, err := s.indexer.IndexDocument(r.Context(), embedding.Credentials{APIKey: req.APIKey}, req.DocumentInput)
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"document_id": req.ID,
		"chunks":      chunks,
	})
}

// handleUpload ingests an uploaded file: the text is extracted by extension,
// normalized, and indexed under a fresh id so repeated uploads of the same
// file name do not collide.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	text, err := s.extractor.ExtractBytes(content, ext)
	if err != nil {
		s.logger.Error("extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := models.DocumentInput{
		ID:      fmt.Sprintf("%s-%s", uuid.NewString()[:8], header.Filename),
		Title:   header.Filename,
		Source:  header.Filename,
		Content: indexer.Normalize(text),
	}
	s.logger.Debug("upload request",
		zap.String("filename", header.Filename),
		zap.String("id", input.ID),
		zap.Int("bytes", len(content)))

	chunks, err := s.indexer.IndexDocument(r.Context(), embedding.Credentials{APIKey: r.FormValue("api_key")}, input)
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"document_id": input.ID,
		"title":       input.Title,
		"chunks":      chunks,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.indexer.Documents()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.indexer.Document(id)
	if err != nil {
		if errors.Is(err, indexer.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if !s.indexer.DeleteDocument(r.Context(), id) {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("mode", req.Mode),
		zap.Int("k", req.K))

	response, err := s.engine.Search(r.Context(), embedding.Credentials{APIKey: req.APIKey}, &req.SearchRequest)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	documents, chunks := s.indexer.Stats()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"documents": documents,
		"chunks":    chunks,
	})
}

// statusForError maps upstream provider failures to 502 so clients can tell
// them apart from bugs in this server.
func statusForError(err error) int {
	var embErr *embedding.ProviderError
	var genErr *generate.ProviderError
	if errors.As(err, &embErr) || errors.As(err, &genErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
