package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/resolve"
	"github.com/platewatch/platewatch/internal/search"
	"github.com/platewatch/platewatch/internal/source"
	"github.com/platewatch/platewatch/internal/stats"
)

type fakeRecords struct {
	records map[string][]model.HazardRecord
	all     []model.HazardRecord
}

func (f *fakeRecords) Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error) {
	if keyword == "" {
		return f.all, nil
	}
	return f.records[keyword], nil
}

type fakeProducts struct {
	products map[string]*model.ProductRecord
}

func (f *fakeProducts) GetByIdentifier(ctx context.Context, id string) (*model.ProductRecord, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, source.ErrNotFound
	}
	return p, nil
}

func testServer(records *fakeRecords, products *fakeProducts) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := search.NewEngine(records, log)
	opts := search.Options{PerKeywordLimit: 20, RecencyWindowDays: 90, Limit: 10}
	return &Server{
		Engine:     engine,
		Recalls:    records,
		Resolver:   resolve.NewResolver(products, engine, opts, log),
		Summarizer: stats.NewSummarizer(records, 100),
		SearchOpts: opts,
		Log:        log,
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeRecords(t *testing.T, rr *httptest.ResponseRecorder) recordsResponse {
	t.Helper()
	var resp recordsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func sampleRecord(id string, class string, day int) model.HazardRecord {
	return model.HazardRecord{
		Identifier:     id,
		Subject:        "subject " + id,
		Classification: class,
		IssuedAt:       time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestHealthz(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()
	rr := get(t, h, "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestSearch(t *testing.T) {
	records := &fakeRecords{records: map[string][]model.HazardRecord{
		"salmon": {sampleRecord("R-1", "Class I", 5)},
		"tuna":   {sampleRecord("R-2", "Class II", 10)},
	}}
	h := testServer(records, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/search?keywords=salmon,tuna")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeRecords(t, rr)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "R-2", resp.Records[0].Identifier) // most recent first
	assert.Equal(t, model.SeverityCritical, resp.Records[1].Severity)
}

func TestSearch_CategoryPreset(t *testing.T) {
	records := &fakeRecords{records: map[string][]model.HazardRecord{
		"salmon": {sampleRecord("R-1", "Class I", 5)},
	}}
	h := testServer(records, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/search?category=seafood")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decodeRecords(t, rr).Count)
}

func TestSearch_UnknownCategory(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()
	rr := get(t, h, "/api/v1/search?category=gadgets")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearch_MissingQuery(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()
	rr := get(t, h, "/api/v1/search")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecallsRecent(t *testing.T) {
	records := &fakeRecords{all: []model.HazardRecord{
		sampleRecord("R-1", "Class I", 5),
		sampleRecord("R-2", "Class III", 20),
	}}
	h := testServer(records, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/recalls/recent")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeRecords(t, rr)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "R-2", resp.Records[0].Identifier)
}

func TestRecallsCritical(t *testing.T) {
	records := &fakeRecords{all: []model.HazardRecord{
		sampleRecord("R-1", "Class I", 5),
		sampleRecord("R-2", "Class III", 20),
		sampleRecord("R-3", "Class I", 8),
	}}
	h := testServer(records, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/recalls/critical")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeRecords(t, rr)
	require.Equal(t, 2, resp.Count)
	for _, rec := range resp.Records {
		assert.Equal(t, model.SeverityCritical, rec.Severity)
	}
}

func TestRecallByNumber(t *testing.T) {
	records := &fakeRecords{records: map[string][]model.HazardRecord{
		"R-100": {sampleRecord("R-100", "Class II", 5)},
	}}
	h := testServer(records, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/recalls/R-100")
	require.Equal(t, http.StatusOK, rr.Code)

	var rec model.HazardRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "R-100", rec.Identifier)
	assert.Equal(t, model.SeverityHigh, rec.Severity)
}

func TestRecallByNumber_NotFound(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()
	rr := get(t, h, "/api/v1/recalls/R-404")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStatsSummary(t *testing.T) {
	records := &fakeRecords{all: []model.HazardRecord{
		{Identifier: "R-1", Classification: "Class I", Status: "Ongoing", State: "CA"},
		{Identifier: "R-2", Classification: "Class I", Status: "Ongoing", State: "CA"},
	}}
	h := testServer(records, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/recalls/stats/summary?days=14")
	require.Equal(t, http.StatusOK, rr.Code)

	var summary stats.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 14, summary.WindowDays)
	assert.Equal(t, 2, summary.ByClassification["Class I"])
	require.Len(t, summary.TopStates, 1)
	assert.Equal(t, "CA", summary.TopStates[0].State)
}

func TestBarcodeLookup(t *testing.T) {
	products := &fakeProducts{products: map[string]*model.ProductRecord{
		"1234567890123": {Barcode: "1234567890123", Name: "canned tuna", NutriScore: "D"},
	}}
	records := &fakeRecords{records: map[string][]model.HazardRecord{
		"canned tuna": {sampleRecord("R-1", "Class I", 5)},
	}}
	h := testServer(records, products).Routes()

	rr := get(t, h, "/api/v1/barcode/lookup/1234567890123")
	require.Equal(t, http.StatusOK, rr.Code)

	var view model.CompositeRiskView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, view.HasActiveHazard)
	assert.Equal(t, model.SeverityCritical, view.WorstSeverity)
	require.Len(t, view.Signals, 1)
	assert.Equal(t, model.CategoryHigh, view.Signals[0].Category)
}

func TestBarcodeLookup_Invalid(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()
	rr := get(t, h, "/api/v1/barcode/lookup/123")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBarcodeLookup_NotFound(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()
	rr := get(t, h, "/api/v1/barcode/lookup/12345678")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestClassifyMercury(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/classify/mercury/0.15")
	require.Equal(t, http.StatusOK, rr.Code)

	var sig model.ClassifiedSignal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sig))
	assert.Equal(t, "mercury", sig.Name)
	assert.Equal(t, "ppm", sig.Unit)
	assert.Equal(t, model.CategoryModerate, sig.Category)
	assert.Equal(t, "Good Choice", sig.Label)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/classify/mercury/heavy").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/classify/mercury/-0.1").Code)
}

func TestClassifyNutriScore(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/classify/nutriscore/c")
	require.Equal(t, http.StatusOK, rr.Code)

	var info struct {
		Grade    string         `json:"grade"`
		Category model.Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "C", info.Grade)
	assert.Equal(t, model.CategoryModerate, info.Category)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/classify/nutriscore/z").Code)
}

func TestClassifyNova(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()

	rr := get(t, h, "/api/v1/classify/nova/4")
	require.Equal(t, http.StatusOK, rr.Code)

	var info struct {
		Grade    string         `json:"grade"`
		Category model.Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, model.CategoryHigh, info.Category)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/classify/nova/9").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/classify/nova/four").Code)
}

func TestAsk_DisabledWithoutAdvisor(t *testing.T) {
	h := testServer(&fakeRecords{}, &fakeProducts{}).Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask",
		strings.NewReader(`{"question":"is tuna safe?"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
