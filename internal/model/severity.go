package model

// Severity is the ordinal risk level assigned to a hazard event.
// Higher values sort before lower ones in user-facing views.
//
// Integer constants rather than strings keep comparisons and sorting cheap;
// String() provides the display form.
type Severity int

const (
	// SeverityUnknown is the zero value for records whose upstream
	// classification code is missing or unrecognized.
	SeverityUnknown Severity = iota

	// SeverityModerate maps from FDA Class III: unlikely to cause adverse
	// health consequences.
	SeverityModerate

	// SeverityHigh maps from FDA Class II: may cause temporary health
	// problems or a slight threat of a serious nature.
	SeverityHigh

	// SeverityCritical maps from FDA Class I: dangerous products that may
	// cause serious health problems or death.
	SeverityCritical
)

// String returns the human-readable severity label.
func (s Severity) String() string {
	switch s {
	case SeverityModerate:
		return "Moderate"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Category is a normalized risk/quality label for classified signals.
// Continuous and categorical signals may carry custom labels; the
// constants below are the common taxonomy used across sources.
type Category string

const (
	CategoryLow      Category = "Low"
	CategoryModerate Category = "Moderate"
	CategoryHigh     Category = "High"
	CategoryUnknown  Category = "Unknown"
)
