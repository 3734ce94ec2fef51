package source

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/platewatch/platewatch/internal/classify"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/worker"
)

// advisoryRaw is the upstream advisory/sustainability record shape. The
// feeds are keyed by species or location rather than free keyword, but the
// record shape matches the recall feed closely enough to normalize into
// the same HazardRecord.
type advisoryRaw struct {
	AdvisoryID  string `json:"advisory_id"`
	Species     string `json:"species"`
	Location    string `json:"location"`
	State       string `json:"state"`
	Contaminant string `json:"contaminant"`
	Advice      string `json:"advice"`
	Rating      string `json:"rating"` // Sustainability feeds: "Best Choice", "Good Alternative", "Avoid"
	IssuedDate  string `json:"issued_date"`
	Status      string `json:"status"`
}

// AdvisoryClient queries contamination advisories and sustainability
// ratings. It implements RecordSource; the keyword is matched against
// species/location upstream.
type AdvisoryClient struct {
	http    *httpClient
	baseURL string
}

// NewAdvisoryClient creates an advisory feed client.
func NewAdvisoryClient(baseURL string, httpCfg model.HTTPConfig, limiter *worker.Limiter) *AdvisoryClient {
	return &AdvisoryClient{
		http:    newHTTPClient(httpCfg, limiter),
		baseURL: baseURL,
	}
}

// Lookup fetches advisories for a species or location keyword. Like the
// recall feed, the payload may be a bare array or a wrapping object.
func (c *AdvisoryClient) Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error) {
	params := url.Values{}
	if keyword != "" {
		params.Set("species", keyword)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if recencyWindowDays > 0 {
		params.Set("days", strconv.Itoa(recencyWindowDays))
	}

	reqURL, err := buildURL(c.baseURL, params)
	if err != nil {
		return nil, &UpstreamError{Source: "advisory", Op: "lookup", Err: err}
	}

	var payload json.RawMessage
	if err := c.http.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, &UpstreamError{Source: "advisory", Op: "lookup", Err: err}
	}

	raws, err := decodeAdvisoryPayload(payload)
	if err != nil {
		return nil, &UpstreamError{Source: "advisory", Op: "decode", Err: err}
	}

	records := make([]model.HazardRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, raw.toRecord())
	}
	return records, nil
}

func decodeAdvisoryPayload(payload json.RawMessage) ([]advisoryRaw, error) {
	var list []advisoryRaw
	if err := json.Unmarshal(payload, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Advisories []advisoryRaw `json:"advisories"`
		Results    []advisoryRaw `json:"results"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Advisories != nil {
		return wrapped.Advisories, nil
	}
	return wrapped.Results, nil
}

func (r advisoryRaw) toRecord() model.HazardRecord {
	reason := r.Contaminant
	if r.Advice != "" {
		if reason != "" {
			reason += ": "
		}
		reason += r.Advice
	}
	if reason == "" {
		reason = r.Rating
	}
	// Advisories carry no enforcement classification code; the rating text
	// is classified heuristically at the boundary instead.
	return model.HazardRecord{
		Identifier:   r.AdvisoryID,
		Subject:      firstNonEmpty(r.Species, r.Location),
		HazardReason: reason,
		State:        r.State,
		Status:       r.Status,
		Severity:     classify.RatingSeverity(r.Rating),
		IssuedAt:     parseRecallDate(r.IssuedDate),
	}
}
