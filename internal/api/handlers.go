package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/platewatch/platewatch/internal/advisor"
	"github.com/platewatch/platewatch/internal/classify"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/rank"
	"github.com/platewatch/platewatch/internal/resolve"
	"github.com/platewatch/platewatch/internal/search"
	"github.com/platewatch/platewatch/internal/source"
)

// handleSearch fans a keyword set out against the hazard feeds. Keywords
// come from q (single term), keywords (CSV) or category (preset slug).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var keywords []string
	if raw := strings.TrimSpace(q.Get("q")); raw != "" {
		keywords = append(keywords, raw)
	}
	keywords = append(keywords, parseCSV(q.Get("keywords"))...)
	if slug := strings.TrimSpace(q.Get("category")); slug != "" {
		preset := search.KeywordsForCategory(slug)
		if preset == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category: " + slug})
			return
		}
		keywords = append(keywords, preset...)
	}
	if len(keywords) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q, keywords or category is required"})
		return
	}

	opts := s.SearchOpts
	opts.Limit = clampInt(q.Get("limit"), opts.Limit, 100)
	if days := clampInt(q.Get("days"), 0, 365); days > 0 {
		opts.RecencyWindowDays = days
	}

	records := s.Engine.SearchByKeywords(r.Context(), keywords, opts)
	writeJSON(w, http.StatusOK, recordsResponse{Records: records, Count: len(records)})
}

// handleRecalls lists recalls matching an optional search term.
func (s *Server) handleRecalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := strings.TrimSpace(q.Get("search"))
	limit := clampInt(q.Get("limit"), 50, 100)
	days := clampInt(q.Get("days"), 0, 365)

	records, err := s.Recalls.Lookup(r.Context(), term, limit, days)
	if err != nil {
		s.Log.Error("recall lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recall feed unavailable"})
		return
	}
	records = classify.Records(rank.DedupeAndRank(records, limit))
	writeJSON(w, http.StatusOK, recordsResponse{Records: records, Count: len(records)})
}

// handleRecentRecalls lists recalls from the last N days, default 30.
func (s *Server) handleRecentRecalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := clampInt(q.Get("days"), 30, 365)
	limit := clampInt(q.Get("limit"), 20, 100)

	records, err := s.Recalls.Lookup(r.Context(), "", limit, days)
	if err != nil {
		s.Log.Error("recall lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recall feed unavailable"})
		return
	}
	records = classify.Records(rank.DedupeAndRank(records, limit))
	writeJSON(w, http.StatusOK, recordsResponse{Records: records, Count: len(records)})
}

// handleCriticalRecalls lists only the most severe recall class.
func (s *Server) handleCriticalRecalls(w http.ResponseWriter, r *http.Request) {
	limit := clampInt(r.URL.Query().Get("limit"), 20, 100)

	// Over-fetch before filtering so a page of lesser classes cannot
	// starve the critical list.
	records, err := s.Recalls.Lookup(r.Context(), "", limit*4, 0)
	if err != nil {
		s.Log.Error("recall lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recall feed unavailable"})
		return
	}

	critical := make([]model.HazardRecord, 0, limit)
	for _, rec := range classify.Records(rank.DedupeAndRank(records, limit*4)) {
		if rec.Severity == model.SeverityCritical {
			critical = append(critical, rec)
		}
	}
	if len(critical) > limit {
		critical = critical[:limit]
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: critical, Count: len(critical)})
}

// handleRecallByNumber fetches one recall by its recall number.
func (s *Server) handleRecallByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	records, err := s.Recalls.Lookup(r.Context(), number, 10, 0)
	if err != nil && !errors.Is(err, source.ErrNotFound) {
		s.Log.Error("recall lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recall feed unavailable"})
		return
	}
	for _, rec := range classify.Records(records) {
		if rec.Identifier == number {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "recall not found: " + number})
}

// handleStatsSummary aggregates recent recall activity.
func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	days := clampInt(r.URL.Query().Get("days"), 30, 365)

	summary, err := s.Summarizer.Summarize(r.Context(), days)
	if err != nil {
		s.Log.Error("stats summary failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recall feed unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleBarcodeLookup resolves a barcode into the composite risk view.
func (s *Server) handleBarcodeLookup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	view, err := s.Resolver.Resolve(r.Context(), code)
	switch {
	case errors.Is(err, resolve.ErrInvalidIdentifier):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, source.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found: " + code})
	case err != nil:
		s.Log.Error("barcode resolution failed", "barcode", code, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "product catalog unavailable"})
	default:
		writeJSON(w, http.StatusOK, view)
	}
}

// handleMercury classifies a mercury concentration in ppm against the
// consumption-guidance breakpoints.
func (s *Server) handleMercury(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "ppm")
	ppm, err := strconv.ParseFloat(raw, 64)
	if err != nil || ppm < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ppm must be a non-negative number"})
		return
	}
	writeJSON(w, http.StatusOK, classify.MercuryInfo(ppm))
}

// handleNutriScore explains a Nutri-Score letter grade.
func (s *Server) handleNutriScore(w http.ResponseWriter, r *http.Request) {
	grade := chi.URLParam(r, "grade")
	info := classify.NutriScoreInfo(grade)
	if info.Category == model.CategoryUnknown {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown nutri-score grade: " + grade})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleNova explains a NOVA processing group.
func (s *Server) handleNova(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "group")
	group, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "nova group must be a number"})
		return
	}
	info := classify.NovaInfo(group)
	if info.Category == model.CategoryUnknown {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown nova group: " + raw})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type askRequest struct {
	Question string `json:"question"`
}

// handleAsk answers a natural-language question via the advisor.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.Advisor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: advisor.ErrDisabled.Error()})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	answer, err := s.Advisor.Ask(ctx, req.Question)
	if err != nil {
		s.Log.Error("advisor failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "advisor unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if max > 0 && value > max {
		return max
	}
	return value
}
