// Package api exposes the service over HTTP: keyword search, recall
// browsing, barcode resolution, grade classification and the optional
// advisor, all under /api/v1.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/platewatch/platewatch/internal/advisor"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/resolve"
	"github.com/platewatch/platewatch/internal/search"
	"github.com/platewatch/platewatch/internal/source"
	"github.com/platewatch/platewatch/internal/stats"
)

// Server bundles the service components behind the HTTP API. Advisor may
// be nil; its endpoint then answers 503.
type Server struct {
	Engine     *search.Engine
	Recalls    source.RecordSource
	Resolver   *resolve.Resolver
	Summarizer *stats.Summarizer
	Advisor    *advisor.Advisor
	SearchOpts search.Options
	Log        *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type recordsResponse struct {
	Records []model.HazardRecord `json:"records"`
	Count   int                  `json:"count"`
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Route("/recalls", func(r chi.Router) {
			r.Get("/", s.handleRecalls)
			r.Get("/recent", s.handleRecentRecalls)
			r.Get("/critical", s.handleCriticalRecalls)
			r.Get("/stats/summary", s.handleStatsSummary)
			r.Get("/{number}", s.handleRecallByNumber)
		})
		r.Get("/barcode/lookup/{code}", s.handleBarcodeLookup)
		r.Get("/classify/mercury/{ppm}", s.handleMercury)
		r.Get("/classify/nutriscore/{grade}", s.handleNutriScore)
		r.Get("/classify/nova/{group}", s.handleNova)
		r.Post("/ask", s.handleAsk)
	})

	return r
}

// Run serves until ctx is cancelled, then drains with a shutdown grace
// period.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Log.Info("api server starting", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Log.Info("api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already committed; an encode failure here can
	// only be a dropped connection.
	_ = json.NewEncoder(w).Encode(payload)
}
