// Package httpadapter exposes the intake and status surfaces over HTTP.
// Submissions are accepted and queued; processing happens in the worker.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
	"github.com/socialsupport/benefits-pipeline/internal/observability/metrics"
)

type Router struct {
	intake  ports.ApplicationIntake
	status  ports.StatusReader
	metrics *metrics.HTTPServerMetrics
	service string
	logger  *slog.Logger
}

func NewRouter(
	intake ports.ApplicationIntake,
	status ports.StatusReader,
	httpMetrics *metrics.HTTPServerMetrics,
	service string,
	logger *slog.Logger,
) *Router {
	return &Router{
		intake:  intake,
		status:  status,
		metrics: httpMetrics,
		service: service,
		logger:  logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/applications", rt.applications)
	mux.HandleFunc("/v1/applications/", rt.applicationStatus)
	mux.HandleFunc("/v1/workflows/", rt.workflowSummary)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submitRequest struct {
	ApplicationID string                 `json:"application_id,omitempty"`
	Applicant     domain.IntakeApplicant `json:"applicant_info"`
	Documents     []domain.DocumentInput `json:"documents"`
}

type submitResponse struct {
	ApplicationID string `json:"application_id"`
	WorkflowID    string `json:"workflow_id"`
	Status        string `json:"status"`
}

func (rt *Router) applications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitApplication(w, r)
	case http.MethodGet:
		rt.listApplications(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) submitApplication(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.recordSubmission("invalid", 0)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Documents) == 0 {
		rt.recordSubmission("invalid", 0)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one document is required"})
		return
	}

	workflow, err := rt.intake.Submit(r.Context(), strings.TrimSpace(req.ApplicationID), req.Applicant, req.Documents)
	if err != nil {
		rt.recordSubmission("rejected", 0)
		rt.logger.Error("submit application failed", "error", err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.recordSubmission("accepted", len(req.Documents))
	writeJSON(w, http.StatusAccepted, submitResponse{
		ApplicationID: workflow.ApplicationID,
		WorkflowID:    workflow.WorkflowID,
		Status:        string(domain.WorkflowInitiated),
	})
}

func (rt *Router) listApplications(w http.ResponseWriter, r *http.Request) {
	summaries, err := rt.status.ListApplications(r.Context())
	if err != nil {
		rt.logger.Error("list applications failed", "error", err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applications": summaries,
		"count":        len(summaries),
	})
}

func (rt *Router) applicationStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/applications/")
	id := strings.TrimSuffix(rest, "/status")
	id = strings.Trim(id, "/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "application id is required"})
		return
	}

	status, err := rt.status.ApplicationStatus(r.Context(), id)
	if err != nil {
		if domain.IsKind(err, domain.ErrApplicationNotFound) {
			rt.recordStatusLookup("not_found")
		} else {
			rt.recordStatusLookup("error")
			rt.logger.Error("application status failed", "application_id", id, "error", err)
		}
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.recordStatusLookup("found")
	writeJSON(w, http.StatusOK, status)
}

func (rt *Router) workflowSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/workflows/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workflow id is required"})
		return
	}

	summary, err := rt.status.WorkflowSummary(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) recordSubmission(status string, documents int) {
	if rt.metrics != nil {
		rt.metrics.RecordSubmission(rt.service, status, documents)
	}
}

func (rt *Router) recordStatusLookup(status string) {
	if rt.metrics != nil {
		rt.metrics.RecordStatusLookup(rt.service, status)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
