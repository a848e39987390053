package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/daybook/internal/domain/notifications"
	"github.com/Spok95/daybook/internal/domain/records"
	"github.com/Spok95/daybook/internal/domain/reports"
)

// Deps are the core handles the read-only endpoints serve from.
type Deps struct {
	Records *records.Repo
	Engine  *notifications.Engine
}

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, deps Deps) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		list, err := deps.Engine.GetAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		unread, err := deps.Engine.UnreadCount(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"unread":        unread,
			"notifications": list,
		})
	})

	mux.HandleFunc("/export.xlsx", func(w http.ResponseWriter, r *http.Request) {
		year, month, ok := parseMonth(r.URL.Query().Get("month"))
		if !ok {
			http.Error(w, "month must look like 2026-08", http.StatusBadRequest)
			return
		}
		recs, err := deps.Records.GetAll(r.Context(), false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="daybook-`+r.URL.Query().Get("month")+`.xlsx"`)
		if err := reports.WriteMonthlyXLSX(w, recs, year, month); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

func parseMonth(s string) (int, time.Month, bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
