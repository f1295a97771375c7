package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/application/usecase"
)

// Server exposes the use cases over HTTP.
type Server struct {
	services *usecase.Services
	logger   *zap.Logger
	metrics  *Metrics
}

// NewRouter builds the HTTP routes of the API.
func NewRouter(services *usecase.Services, logger *zap.Logger, metrics *Metrics) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics("campaign_analytics")
	}
	s := &Server{services: services, logger: logger, metrics: metrics}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Instrument(logger, metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/campaigns/{campaignID}", func(r chi.Router) {
			r.Get("/comparison", s.comparison)
			r.Get("/targets", s.targets)
			r.Get("/reports", s.listReports)
			r.Post("/reports", s.createReport)
			r.Post("/insights", s.ask)
		})
		r.Delete("/reports/{reportID}", s.deleteReport)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
