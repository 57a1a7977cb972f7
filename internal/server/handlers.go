package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/shirabe/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Shirabe is running",
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if !s.extensionAllowed(header.Filename) {
		s.respondError(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	stored, err := s.uploads.Save(header.Filename, file, s.config.Upload.MaxFileSizeBytes)
	if err != nil {
		s.logger.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("file uploaded", zap.String("filename", header.Filename), zap.String("stored", stored))
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message":  "File uploaded successfully",
		"fileUrl":  "/uploads/" + stored,
		"filename": stored,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req models.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileURL == "" {
		s.respondError(w, http.StatusBadRequest, "fileUrl is required")
		return
	}
	filename := path.Base(req.FileURL)
	if !s.uploads.Exists(filename) {
		s.respondError(w, http.StatusNotFound, "File not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message":  "File is available",
		"filename": filename,
		"fileUrl":  req.FileURL,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" {
		s.respondError(w, http.StatusBadRequest, "Filename is required")
		return
	}

	filename := path.Base(req.Filename)
	if !s.uploads.Exists(filename) {
		s.respondError(w, http.StatusNotFound, "File not found")
		return
	}
	filePath, err := s.uploads.Path(filename)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.ingestor.IngestFile(r.Context(), displayName(filename), filePath)
	if err != nil {
		s.logger.Error("processing failed", zap.String("filename", filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message":    "File processed successfully",
		"documentId": res.DocumentID,
		"preview":    res.Preview,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	response, err := s.engine.Search(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrEmptyQuery) {
			s.respondError(w, http.StatusBadRequest, "Query is required")
			return
		}
		s.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	req := models.ListRequest{
		Limit: queryInt(r, "limit"),
		Page:  queryInt(r, "page"),
	}
	response, err := s.engine.ListDocuments(r.Context(), &req)
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) extensionAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.config.Upload.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// displayName strips the timestamp prefix the upload store adds, so catalog
// entries carry the name the user uploaded.
func displayName(stored string) string {
	if i := strings.IndexByte(stored, '-'); i > 0 {
		prefix := stored[:i]
		if _, err := strconv.ParseInt(prefix, 10, 64); err == nil && i+1 < len(stored) {
			return stored[i+1:]
		}
	}
	return stored
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
