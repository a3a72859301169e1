package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ImportTypeInfo describes one registered import type for the frontend.
type ImportTypeInfo struct {
	Key            string   `json:"key"`
	Label          string   `json:"label"`
	Headers        []string `json:"headers"`
	RequiredFields []string `json:"requiredFields"`
}

// PreviewResponse is the dry-run result: what the file parses to and what
// an apply would do. Nothing is written.
type PreviewResponse struct {
	Result  *importer.ImportResult          `json:"result"`
	Summary *importer.ReconciliationSummary `json:"summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	configs := importer.All()
	infos := make([]ImportTypeInfo, len(configs))
	for i, cfg := range configs {
		var required []string
		for _, f := range cfg.Fields {
			if f.Required {
				required = append(required, f.Name)
			}
		}
		infos[i] = ImportTypeInfo{
			Key:            cfg.Key,
			Label:          cfg.Label,
			Headers:        cfg.TemplateHeaders(),
			RequiredFields: required,
		}
	}
	respondJSON(w, http.StatusOK, infos)
}

// handleTemplate serves a one-line CSV template with the preferred header
// spelling for every field of the import type.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	cfg, ok := importer.Get(chi.URLParam(r, "importType"))
	if !ok {
		s.respondError(w, r, &importer.StructuralError{
			Code: importer.CodeUnknownType, Message: "unknown import type",
		}, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+cfg.Key+`-template.csv"`)
	w.Write([]byte(strings.Join(cfg.TemplateHeaders(), ",") + "\n"))
}

// handlePreview parses the uploaded file and reconciles it against the
// current snapshot without writing anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	cfg, data, _, opts, ok := s.readImportRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := s.store.Snapshot(r.Context(), cfg.Key)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	result, summary, err := importer.Run(data, cfg, snapshot, opts)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	respondJSON(w, http.StatusOK, PreviewResponse{Result: result, Summary: summary})
}

// handleImport parses, reconciles, and applies the uploaded file, then
// returns the recorded run.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	cfg, data, fileName, opts, ok := s.readImportRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := s.store.Snapshot(r.Context(), cfg.Key)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	result, summary, err := importer.Run(data, cfg, snapshot, opts)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	run, err := s.store.Apply(r.Context(), cfg.Key, fileName, result, *summary)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("import applied",
		"run_id", run.ID,
		"import_type", run.ImportType,
		"accepted", run.Accepted,
		"rejected", run.Rejected,
		"created", run.Created,
		"updated", run.Updated,
		"archived", run.Archived,
	)

	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	run, err := s.store.Run(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := s.store.Runs(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// readImportRequest validates the import type, reads the uploaded file,
// and parses the option switches shared by import and preview. On failure
// it writes the error response and returns ok=false.
func (s *Server) readImportRequest(w http.ResponseWriter, r *http.Request) (importer.ParseConfig, []byte, string, importer.Options, bool) {
	var none importer.ParseConfig

	cfg, ok := importer.Get(chi.URLParam(r, "importType"))
	if !ok {
		s.respondError(w, r, &importer.StructuralError{
			Code: importer.CodeUnknownType, Message: "unknown import type",
		}, http.StatusNotFound)
		return none, nil, "", importer.Options{}, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
		return none, nil, "", importer.Options{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, &importer.StructuralError{
			Code: "FILE004", Message: "no file provided",
		}, http.StatusBadRequest)
		return none, nil, "", importer.Options{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return none, nil, "", importer.Options{}, false
	}

	return cfg, data, header.Filename, parseOptions(r), true
}

// parseOptions reads the reconciliation switches from form values.
// Update and create default to on, archiving and full replace to off.
func parseOptions(r *http.Request) importer.Options {
	opts := importer.DefaultOptions()
	if v := r.FormValue("updateExisting"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.UpdateExisting = b
		}
	}
	if v := r.FormValue("addNew"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.AddNew = b
		}
	}
	if v := r.FormValue("archiveMissing"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.ArchiveMissing = b
		}
	}
	if v := r.FormValue("replaceAll"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.ReplaceAll = b
		}
	}
	return opts
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
