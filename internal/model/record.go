package model

import "time"

// HazardRecord is one discrete adverse-event record, such as an FDA recall
// entry or a state contamination advisory.
type HazardRecord struct {
	Identifier     string    `json:"identifier"`              // Unique per logical event (e.g. recall number)
	Subject        string    `json:"subject"`                 // Affected product or species
	HazardReason   string    `json:"hazard_reason,omitempty"` // Free-text cause
	Company        string    `json:"company,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Status         string    `json:"status,omitempty"`         // Upstream lifecycle string (e.g. "Ongoing")
	Classification string    `json:"classification,omitempty"` // Upstream code (e.g. "Class I")
	Severity       Severity  `json:"severity"`                 // Assigned at classification time, not stored upstream
	IssuedAt       time.Time `json:"issued_at"`
	Distribution   string    `json:"distribution,omitempty"`
	Quantity       string    `json:"quantity,omitempty"`
	OriginTags     []string  `json:"origin_tags,omitempty"` // Which keyword/category produced this record; provenance only
}

// ProductRecord is the normalized product description returned by the
// product collaborator (Open Food Facts).
type ProductRecord struct {
	Barcode     string   `json:"barcode"`
	Name        string   `json:"name"`
	Brands      string   `json:"brands,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
	Allergens   []string `json:"allergens,omitempty"`
	NutriScore  string   `json:"nutriscore_grade,omitempty"` // A-E letter grade
	NovaGroup   int      `json:"nova_group,omitempty"`       // 1-4 processing tier
	EcoScore    string   `json:"ecoscore_grade,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// SearchTerm returns the term used to cross-reference hazard records for
// this product. The human-readable name is used, never the scan code:
// recall feeds describe products by name.
func (p ProductRecord) SearchTerm() string {
	return p.Name
}
