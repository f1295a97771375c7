package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/application/reporting"
	"github.com/diillson/campaign-analytics-go/internal/application/usecase"
	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// reportView is a registry entry without the artifact bytes.
type reportView struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	CampaignID string              `json:"campaignId"`
	Format     entity.ReportFormat `json:"format"`
	Status     entity.ReportStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	Schedule   *entity.Schedule    `json:"schedule,omitempty"`
	Filename   string              `json:"filename,omitempty"`
}

func newReportView(r entity.Report) reportView {
	v := reportView{
		ID:         r.ID,
		Name:       reporting.ReportName(r.Config),
		CampaignID: r.Config.CampaignID,
		Format:     r.Config.Format,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
	if r.Config.Schedule.Enabled {
		schedule := r.Config.Schedule
		v.Schedule = &schedule
	}
	if r.Artifact != nil {
		v.Filename = r.Artifact.Filename
	}
	return v
}

type targetsResponse struct {
	KPIs       []entity.KPI       `json:"kpis"`
	Benchmarks []entity.Benchmark `json:"benchmarks"`
}

type questionRequest struct {
	Question string `json:"question"`
}

func (s *Server) comparison(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.services.Dashboard.Compare(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) targets(w http.ResponseWriter, r *http.Request) {
	kpis, benchmarks, err := s.services.Targets.Targets(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if kpis == nil {
		kpis = []entity.KPI{}
	}
	if benchmarks == nil {
		benchmarks = []entity.Benchmark{}
	}
	writeJSON(w, http.StatusOK, targetsResponse{KPIs: kpis, Benchmarks: benchmarks})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.services.Reports.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	campaignID := chi.URLParam(r, "campaignID")
	views := make([]reportView, 0, len(reports))
	for _, rep := range reports {
		if rep.Config.CampaignID == campaignID {
			views = append(views, newReportView(rep))
		}
	}
	writeJSON(w, http.StatusOK, views)
}

// createReport runs one report. Generated reports come back as the file
// itself, scheduled ones as the registry entry.
func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	var cfg entity.ReportConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	cfg.CampaignID = chi.URLParam(r, "campaignID")
	cfg.Format = entity.ReportFormat(strings.ToLower(string(cfg.Format)))

	state, _, err := s.services.Reports.Generate(r.Context(), cfg, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if state.Report == nil {
		s.writeError(w, r, fmt.Errorf("report was not stored"))
		return
	}
	report := *state.Report
	s.metrics.Reports.WithLabelValues(string(report.Config.Format), string(report.Status)).Inc()

	if report.Status == entity.ReportScheduled || report.Artifact == nil {
		writeJSON(w, http.StatusCreated, newReportView(report))
		return
	}

	a := report.Artifact
	w.Header().Set("Content-Type", a.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Content)))
	w.Header().Set("X-Report-ID", report.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Content)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Reports.Delete(r.Context(), chi.URLParam(r, "reportID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	answer, err := s.services.Insights.Ask(r.Context(), chi.URLParam(r, "campaignID"), req.Question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.Insights.WithLabelValues(answer.Rule).Inc()
	writeJSON(w, http.StatusOK, answer)
}

// writeError maps use case errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs reporting.FieldErrors
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid report configuration", Fields: fieldErrs})
		return
	case errors.Is(err, types.ErrCampaignRequired), errors.Is(err, usecase.ErrInvalidTarget):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrCampaignNotFound), errors.Is(err, types.ErrReportNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrRequestTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, types.ErrUnsupportedFormat), errors.Is(err, usecase.ErrUnknownStatus):
		status = http.StatusBadRequest
	}

	if status >= 500 {
		s.logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", RequestIDFrom(r.Context())),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
