package model

import "time"

// ClassifiedSignal is a structured measurement or grade together with the
// category the classifier assigned to it.
type ClassifiedSignal struct {
	Name     string   `json:"name"`            // e.g. "mercury", "nutriscore", "nova"
	Value    string   `json:"value"`           // Source representation ("0.35", "C", "4")
	Unit     string   `json:"unit,omitempty"`  // e.g. "ppm"
	Category Category `json:"category"`
	Label    string   `json:"label,omitempty"` // Optional descriptive label for the category
}

// CompositeRiskView is the resolved output for one subject: the product
// description plus every hazard record and classified signal matched to it.
// Created per request and never persisted.
type CompositeRiskView struct {
	Subject         string             `json:"subject"`
	Product         *ProductRecord     `json:"product,omitempty"`
	Hazards         []HazardRecord     `json:"hazards"`
	Signals         []ClassifiedSignal `json:"signals,omitempty"`
	WorstSeverity   Severity           `json:"worst_severity"`
	HasActiveHazard bool               `json:"has_active_hazard"` // True iff at least one hazard matched in the lookup window
	ResolvedAt      time.Time          `json:"resolved_at"`
}
