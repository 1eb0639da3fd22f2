// Package handler exposes the analysis, template, model and export
// endpoints plus the websocket editor session.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"threatvisor/internal/analysis"
	"threatvisor/internal/diagram"
	"threatvisor/internal/dsl"
	"threatvisor/internal/gateway/repository/modelstore"
	"threatvisor/internal/gateway/repository/reportstore"
	"threatvisor/internal/llm"
	"threatvisor/internal/report"
)

type API struct {
	orch    *analysis.Orchestrator
	models  *modelstore.Store
	reports reportstore.Store
}

func New(orch *analysis.Orchestrator, models *modelstore.Store, reports reportstore.Store) *API {
	return &API{
		orch:    orch,
		models:  models,
		reports: reports,
	}
}

type analyzeRequest struct {
	DSL         string `json:"dsl"`
	Methodology string `json:"methodology"`
}

type analyzeResponse struct {
	Diagram string             `json:"diagram"`
	Threats []analysis.Finding `json:"threats"`
}

func (a *API) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	methodology := strings.TrimSpace(in.Methodology)
	if methodology == "" {
		methodology = "STRIDE"
	}
	if !analysis.KnownMethodology(methodology) {
		writeError(w, http.StatusBadRequest, "invalid_methodology", "unknown methodology: "+methodology)
		return
	}
	def, err := dsl.Parse([]byte(in.DSL))
	if err == nil {
		err = dsl.Validate(def)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_definition", err.Error())
		return
	}

	res, err := a.orch.Analyze(r.Context(), analysis.Request{
		DefinitionText: in.DSL,
		Methodology:    methodology,
	})
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Diagram: diagram.Render(def, diagram.Options{IncludeIcons: true}),
		Threats: res.Findings,
	})
}

type exportRequest struct {
	DSL         string             `json:"dsl"`
	Methodology string             `json:"methodology,omitempty"`
	Format      string             `json:"format"`
	ModelID     string             `json:"modelId,omitempty"`
	Threats     []analysis.Finding `json:"threats,omitempty"`
}

type exportResponse struct {
	Key  string `json:"key"`
	Body string `json:"body"`
}

func (a *API) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in exportRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format != "md" && format != "json" {
		writeError(w, http.StatusBadRequest, "invalid_format", "format must be md or json")
		return
	}
	def, err := dsl.Parse([]byte(in.DSL))
	if err == nil {
		err = dsl.Validate(def)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_definition", err.Error())
		return
	}

	findings := in.Threats
	if len(findings) == 0 {
		methodology := strings.TrimSpace(in.Methodology)
		if methodology == "" {
			methodology = "STRIDE"
		}
		if !analysis.KnownMethodology(methodology) {
			writeError(w, http.StatusBadRequest, "invalid_methodology", "unknown methodology: "+methodology)
			return
		}
		res, analyzeErr := a.orch.Analyze(r.Context(), analysis.Request{
			DefinitionText: in.DSL,
			Methodology:    methodology,
		})
		if analyzeErr != nil {
			writeAnalysisError(w, analyzeErr)
			return
		}
		findings = res.Findings
	}
	findings = report.SortBySeverity(findings)

	var body []byte
	var name string
	switch format {
	case "md":
		name = "report.md"
		body = []byte(report.Markdown(def, findings, in.DSL, diagram.Render(def, diagram.Options{})))
	case "json":
		name = "report.json"
		body, err = report.JSON(def, findings, in.DSL)
		if err != nil {
			exportErr := &report.ExportError{Artifact: name, Err: err}
			writeError(w, http.StatusInternalServerError, "export_failed", exportErr.Error())
			return
		}
	}

	modelID := strings.TrimSpace(in.ModelID)
	if modelID == "" {
		modelID = uuid.NewString()
	}
	if err := a.reports.Put(r.Context(), modelID, name, body); err != nil {
		log.Printf("store report %s/%s: %v", modelID, name, err)
		writeError(w, http.StatusInternalServerError, "store_failed", "failed to store report artifact")
		return
	}
	writeJSON(w, http.StatusOK, exportResponse{
		Key:  modelID + "/" + name,
		Body: string(body),
	})
}

type templateSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a *API) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	all := dsl.Templates()
	out := make([]templateSummary, 0, len(all))
	for _, t := range all {
		out = append(out, templateSummary{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) HandleTemplateByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	t, ok := dsl.TemplateByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown template: "+id)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type modelRequest struct {
	Name string `json:"name"`
	DSL  string `json:"dsl"`
}

func (a *API) HandleModels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.models.List())
	case http.MethodPost:
		var in modelRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		m := modelstore.Model{
			ID:        uuid.NewString(),
			Name:      in.Name,
			DSL:       in.DSL,
			UpdatedAt: time.Now().UTC(),
		}
		a.models.Put(m)
		saved, _ := a.models.Get(m.ID)
		writeJSON(w, http.StatusCreated, saved)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) HandleModelByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/models/")
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, "invalid_argument", "model id is required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		m, ok := a.models.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "unknown model: "+id)
			return
		}
		writeJSON(w, http.StatusOK, m)
	case http.MethodPut:
		var in modelRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		a.models.Put(modelstore.Model{
			ID:        id,
			Name:      in.Name,
			DSL:       in.DSL,
			UpdatedAt: time.Now().UTC(),
		})
		saved, _ := a.models.Get(id)
		writeJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if !a.models.Delete(id) {
			writeError(w, http.StatusNotFound, "not_found", "unknown model: "+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case llm.IsAuth(err):
		writeError(w, http.StatusBadGateway, "auth_failed",
			"The analysis provider rejected the configured API key. Check GEMINI_API_KEY / OPENAI_API_KEY.")
	case errors.Is(err, analysis.ErrServiceBusy):
		writeError(w, http.StatusServiceUnavailable, "service_busy", err.Error())
	case errors.Is(err, analysis.ErrInvalidResponse):
		writeError(w, http.StatusBadGateway, "invalid_response", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
