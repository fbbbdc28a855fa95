// Package web serves the JSON API behind the upload form and the report
// dashboards. It has no auth of its own and is meant to run behind one.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"casereport/backend"
	"casereport/config"
	"casereport/grid"
	"casereport/importer"
	"casereport/record"
	"casereport/report"
	"casereport/upload"

	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

type Server struct {
	store  upload.Store
	cfg    config.Config
	logger *zap.Logger
	mux    *http.ServeMux
}

type uploadResponse struct {
	upload.Outcome
	FileName    string            `json:"fileName"`
	FileType    record.FileType   `json:"fileType"`
	RecordCount int               `json:"recordCount"`
	RowsRead    int               `json:"rowsRead"`
	RowsSkipped int               `json:"rowsSkipped"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type extractResponse struct {
	FileName string            `json:"fileName"`
	FileType record.FileType   `json:"fileType"`
	Warning  string            `json:"warning,omitempty"`
	Metadata map[string]string `json:"metadata"`
	Records  []record.Record   `json:"records"`
}

type fileTypeResponse struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(store upload.Store, cfg config.Config, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/file-types", server.handleAPIFileTypes)
	mux.HandleFunc("POST /api/extract", server.handleAPIExtract)
	mux.HandleFunc("POST /api/uploads", server.handleAPIUploadCreate)
	mux.HandleFunc("GET /api/uploads", server.handleAPIUploadList)
	mux.HandleFunc("GET /api/uploads/{id}/records", server.handleAPIUploadRecords)
	mux.HandleFunc("GET /api/uploads/{id}/table", server.handleAPIUploadTable)
	mux.HandleFunc("GET /api/uploads/{id}/summary", server.handleAPIUploadSummary)
	mux.HandleFunc("DELETE /api/uploads/{id}", server.handleAPIUploadDelete)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPIFileTypes(w http.ResponseWriter, r *http.Request) {
	types := record.FileTypes()
	out := make([]fileTypeResponse, 0, len(types))
	for _, ft := range types {
		out = append(out, fileTypeResponse{ID: int(ft), Slug: ft.Slug(), Name: ft.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAPIExtract decodes an uploaded file without storing it.
func (s *Server) handleAPIExtract(w http.ResponseWriter, r *http.Request) {
	file, ok := s.extractMultipart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{
		FileName: file.Path,
		FileType: file.FileType,
		Warning:  file.Warning,
		Metadata: file.Extraction.Metadata,
		Records:  file.Extraction.Records,
	})
}

// handleAPIUploadCreate accepts either a multipart spreadsheet upload or a
// JSON payload of already extracted records.
func (s *Server) handleAPIUploadCreate(w http.ResponseWriter, r *http.Request) {
	var session upload.Session
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var payload upload.Payload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
			return
		}
		if err := payload.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.submit(w, r, &session, payload, uploadResponse{})
		return
	}

	file, ok := s.extractMultipart(w, r)
	if !ok {
		return
	}
	response := uploadResponse{
		FileName:    file.Path,
		FileType:    file.FileType,
		RowsRead:    file.Extraction.RowsRead,
		RowsSkipped: file.Extraction.RowsSkipped,
		Metadata:    file.Extraction.Metadata,
	}
	if file.Warning != "" {
		response.Outcome = upload.Outcome{Message: file.Warning}
		writeJSON(w, http.StatusUnprocessableEntity, response)
		return
	}
	s.submit(w, r, &session, upload.Payload{
		FileName: file.Path,
		FileType: file.FileType,
		Records:  file.Extraction.Records,
	}, response)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, session *upload.Session, payload upload.Payload, response uploadResponse) {
	response.Outcome = session.Submit(r.Context(), s.store, payload)
	response.FileName = payload.FileName
	response.FileType = payload.FileType
	response.RecordCount = len(payload.Records)
	if !response.Outcome.Pass {
		s.logger.Error("upload failed", zap.String("file", payload.FileName), zap.String("message", response.Outcome.Message))
		writeJSON(w, http.StatusBadGateway, response)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

func (s *Server) extractMultipart(w http.ResponseWriter, r *http.Request) (importer.FileResult, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse multipart form: %v", err))
		return importer.FileResult{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return importer.FileResult{}, false
	}
	defer file.Close()

	var ft record.FileType
	if raw := strings.TrimSpace(r.FormValue("fileType")); raw != "" {
		ft, err = record.ParseFileType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return importer.FileResult{}, false
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return importer.FileResult{}, false
	}

	result, err := importer.ExtractBytes(header.Filename, content, ft, s.cfg.Rules)
	if err != nil {
		writeError(w, extractErrorStatus(err), err.Error())
		return importer.FileResult{}, false
	}
	return result, true
}

func (s *Server) handleAPIUploadList(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.store.ListUploads(r.Context())
	if err != nil {
		s.storeError(w, "list uploads", err)
		return
	}
	writeJSON(w, http.StatusOK, uploads)
}

func (s *Server) handleAPIUploadRecords(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.filteredUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleAPIUploadTable(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.filteredUpload(w, r)
	if !ok {
		return
	}
	offset, err := parseNonNegativeInt(r.URL.Query().Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := parseNonNegativeInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	writeJSON(w, http.StatusOK, BuildTableView(stored.Upload.FileType, stored.Records, offset, limit))
}

func (s *Server) handleAPIUploadSummary(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.filteredUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, BuildSummaryView(stored.Upload.FileType, stored.Records))
}

func (s *Server) handleAPIUploadDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUpload(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, "delete upload", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// filteredUpload loads the upload named in the path and applies the filter
// criteria of the query string.
func (s *Server) filteredUpload(w http.ResponseWriter, r *http.Request) (upload.Stored, bool) {
	stored, err := s.store.Records(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, "load upload", err)
		return upload.Stored{}, false
	}
	predicates, err := report.ParseCriteria(stored.Upload.FileType, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return upload.Stored{}, false
	}
	stored.Records = report.Filter(stored.Records, predicates...)
	return stored, true
}

func (s *Server) storeError(w http.ResponseWriter, action string, err error) {
	status := storeErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(action+" failed", zap.Error(err))
	}
	writeError(w, status, fmt.Sprintf("%s: %v", action, err))
}

func storeErrorStatus(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, upload.ErrUploadNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func extractErrorStatus(err error) int {
	if errors.Is(err, grid.ErrUnreadableFile) || errors.Is(err, grid.ErrEmptySheet) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func parseNonNegativeInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid non-negative integer %q", value)
	}
	return parsed, nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
