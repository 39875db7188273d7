package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/Veraticus/defect-triage/internal/model"
	"github.com/Veraticus/defect-triage/internal/pipeline"
	"github.com/Veraticus/defect-triage/internal/tabular"
)

// User-facing flash messages.
const (
	msgNoFile        = "No file selected"
	msgInvalidType   = "Invalid file type. Please upload a CSV or Excel file."
	msgNoData        = "No data to download. Please upload and process a file first."
	msgNoResults     = "No results to show. Please upload and process a file first."
	msgFileTooLarge  = "File is too large. The upload limit is %d MB."
	msgReadError     = "Error reading file: %s"
	msgMissingColumn = "File must contain a %q column"
	msgSuccess       = "Defects categorized successfully! Accuracy: %.1f%%"
	msgExportError   = "Error generating download file: %s"
)

type indexPage struct {
	Flashes []Flash
	Version string
	MaxMB   int64
}

type resultsPage struct {
	Flashes      []Flash
	Version      string
	Columns      []string
	Rows         [][]string
	OutputIndex  int
	Summary      model.Summary
	Chart        ChartData
	Categorized  int
	ExportFormat []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", indexPage{
		Flashes: popFlashes(w, r),
		Version: s.version,
		MaxMB:   s.maxUpload >> 20,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.redirectWithFlash(w, r, "/", FlashError, fmt.Sprintf(msgFileTooLarge, s.maxUpload>>20))
			return
		}
		s.redirectWithFlash(w, r, "/", FlashError, msgNoFile)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		s.redirectWithFlash(w, r, "/", FlashError, msgNoFile)
		return
	}
	defer func() { _ = file.Close() }()

	format, err := tabular.DetectFormat(header.Filename)
	if err != nil || !format.Readable() {
		s.redirectWithFlash(w, r, "/", FlashError, msgInvalidType)
		return
	}

	ds, err := tabular.Read(file, format)
	if err != nil {
		s.logger.Warn("failed to read upload", "file", header.Filename, "error", err)
		s.redirectWithFlash(w, r, "/", FlashError, fmt.Sprintf(msgReadError, readCause(err)))
		return
	}

	result, err := s.pipeline.Process(ds)
	if err != nil {
		var missing *pipeline.MissingColumnError
		if errors.As(err, &missing) {
			s.redirectWithFlash(w, r, "/", FlashError, fmt.Sprintf(msgMissingColumn, missing.Column))
			return
		}
		s.redirectWithFlash(w, r, "/", FlashError, fmt.Sprintf(msgReadError, err))
		return
	}

	s.store.Put(ensureSession(w, r), result)
	s.logger.Info("processed upload",
		"file", header.Filename,
		"rows", result.Summary.Total,
		"accuracy", result.Summary.Accuracy)
	s.redirectWithFlash(w, r, "/results", FlashSuccess, fmt.Sprintf(msgSuccess, result.Summary.Accuracy))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	result, ok := s.store.Get(sessionID(r))
	if !ok {
		s.redirectWithFlash(w, r, "/", FlashError, msgNoResults)
		return
	}

	rows := make([][]string, result.Dataset.Len())
	for i := range rows {
		rows[i] = result.Dataset.Row(i)
	}
	s.render(w, "results.html", resultsPage{
		Flashes:      popFlashes(w, r),
		Version:      s.version,
		Columns:      result.Dataset.Columns,
		Rows:         rows,
		OutputIndex:  slices.Index(result.Dataset.Columns, result.OutputColumn),
		Summary:      result.Summary,
		Chart:        newChartData(result.Summary),
		Categorized:  result.Summary.Total - result.Summary.Uncategorized,
		ExportFormat: []string{string(tabular.FormatXLSX), string(tabular.FormatCSV), string(tabular.FormatJSON)},
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	result, ok := s.store.Get(sessionID(r))
	if !ok {
		s.redirectWithFlash(w, r, "/", FlashError, msgNoData)
		return
	}

	format := tabular.FormatXLSX
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := tabular.ParseFormat(name)
		if err != nil {
			s.redirectWithFlash(w, r, "/results", FlashError, fmt.Sprintf(msgExportError, err))
			return
		}
		format = f
	}

	var buf bytes.Buffer
	if err := tabular.Write(&buf, format, result); err != nil {
		s.logger.Error("failed to export result", "format", format, "error", err)
		s.redirectWithFlash(w, r, "/results", FlashError, fmt.Sprintf(msgExportError, err))
		return
	}

	name := tabular.ExportFileName(s.now(), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

type categorizeRequest struct {
	Text string `json:"text"`
}

type categorizeResponse struct {
	model.Assignment
	Scores model.ScoreTable `json:"scores"`
}

func (s *Server) handleAPICategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	a, table := s.explainer.Explain(req.Text)
	writeJSON(w, http.StatusOK, categorizeResponse{Assignment: a, Scores: table.Matched()})
}

type processRequest struct {
	Columns []string            `json:"columns"`
	Records []map[string]string `json:"records"`
}

func (s *Server) handleAPIProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	ds := &model.Dataset{Columns: req.Columns}
	if len(ds.Columns) == 0 {
		ds.Columns = recordColumns(req.Records)
	}
	ds.Records = make([]model.Record, 0, len(req.Records))
	for _, rec := range req.Records {
		ds.Records = append(ds.Records, model.NewRecord(rec))
	}

	result, err := s.pipeline.Process(ds)
	if err != nil {
		var missing *pipeline.MissingColumnError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  err.Error(),
				"column": missing.Column,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := tabular.Write(w, tabular.FormatJSON, result); err != nil {
		s.logger.Error("failed to encode result", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	addFlash(w, r, kind, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// recordColumns derives a column order when the caller sent none: keys in
// first-seen order, each record's keys sorted.
func recordColumns(records []map[string]string) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// readCause strips the wrapping sentinel so users see the underlying problem.
func readCause(err error) string {
	var fre *tabular.FileReadError
	if errors.As(err, &fre) && fre.Cause() != nil {
		return fre.Cause().Error()
	}
	return strings.TrimSpace(err.Error())
}
