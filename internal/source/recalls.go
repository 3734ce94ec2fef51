package source

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/worker"
)

// recallRaw is the upstream recall record shape.
type recallRaw struct {
	RecallNumber        string `json:"recall_number"`
	ProductDescription  string `json:"product_description"`
	ReasonForRecall     string `json:"reason_for_recall"`
	RecallDate          string `json:"recall_date"`
	CompanyName         string `json:"company_name"`
	City                string `json:"city"`
	State               string `json:"state"`
	Classification      string `json:"classification"`
	Status              string `json:"status"`
	DistributionPattern string `json:"distribution_pattern"`
	ProductQuantity     string `json:"product_quantity"`
}

// recallDateFormats covers the date representations seen in the feed.
var recallDateFormats = []string{time.RFC3339, "2006-01-02", "20060102"}

// RecallClient queries the recall feed. It implements RecordSource.
type RecallClient struct {
	http    *httpClient
	baseURL string
}

// NewRecallClient creates a recall feed client. A nil limiter disables
// rate limiting.
func NewRecallClient(baseURL string, httpCfg model.HTTPConfig, limiter *worker.Limiter) *RecallClient {
	return &RecallClient{
		http:    newHTTPClient(httpCfg, limiter),
		baseURL: baseURL,
	}
}

// Lookup fetches recalls whose description, company or reason matches the
// keyword, issued inside the recency window. The feed sometimes answers
// with a bare array and sometimes with an object wrapping one; both are
// normalized here.
func (c *RecallClient) Lookup(ctx context.Context, keyword string, limit, recencyWindowDays int) ([]model.HazardRecord, error) {
	params := url.Values{}
	if keyword != "" {
		params.Set("search", keyword)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if recencyWindowDays > 0 {
		params.Set("days", strconv.Itoa(recencyWindowDays))
	}

	reqURL, err := buildURL(c.baseURL, params)
	if err != nil {
		return nil, &UpstreamError{Source: "recalls", Op: "lookup", Err: err}
	}

	var payload json.RawMessage
	if err := c.http.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, &UpstreamError{Source: "recalls", Op: "lookup", Err: err}
	}

	raws, err := decodeRecallPayload(payload)
	if err != nil {
		return nil, &UpstreamError{Source: "recalls", Op: "decode", Err: err}
	}

	records := make([]model.HazardRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, raw.toRecord())
	}
	return records, nil
}

// decodeRecallPayload accepts either a bare array or an object with a
// "recalls" (or "results") list.
func decodeRecallPayload(payload json.RawMessage) ([]recallRaw, error) {
	var list []recallRaw
	if err := json.Unmarshal(payload, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Recalls []recallRaw `json:"recalls"`
		Results []recallRaw `json:"results"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Recalls != nil {
		return wrapped.Recalls, nil
	}
	return wrapped.Results, nil
}

func (r recallRaw) toRecord() model.HazardRecord {
	return model.HazardRecord{
		Identifier:     r.RecallNumber,
		Subject:        r.ProductDescription,
		HazardReason:   r.ReasonForRecall,
		Company:        r.CompanyName,
		City:           r.City,
		State:          r.State,
		Status:         r.Status,
		Classification: r.Classification,
		IssuedAt:       parseRecallDate(r.RecallDate),
		Distribution:   r.DistributionPattern,
		Quantity:       r.ProductQuantity,
	}
}

func parseRecallDate(s string) time.Time {
	for _, layout := range recallDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
