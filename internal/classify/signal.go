package classify

import (
	"fmt"
	"strings"

	"github.com/platewatch/platewatch/internal/model"
)

// ConfigurationError reports an invalid signal definition. It is a
// programmer error surfaced at construction time, never at classify time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("signal configuration: %s", e.Reason)
}

// Breakpoint is one (threshold, label) step in a continuous severity mapping.
type Breakpoint struct {
	Threshold float64
	Label     model.Category
}

// ContinuousSignal is a numeric hazard measurement with an ordered severity
// mapping, e.g. mercury concentration in parts-per-million. Immutable once
// constructed.
type ContinuousSignal struct {
	Value       float64
	Unit        string
	breakpoints []Breakpoint
	above       model.Category // Label for values beyond every threshold
}

// NewContinuousSignal builds a continuous signal. Breakpoints must be sorted
// ascending by threshold; a violation is a configuration error, not
// something to hide at runtime.
func NewContinuousSignal(value float64, unit string, breakpoints []Breakpoint, above model.Category) (*ContinuousSignal, error) {
	if len(breakpoints) == 0 {
		return nil, &ConfigurationError{Reason: "at least one breakpoint is required"}
	}
	for i := 1; i < len(breakpoints); i++ {
		if breakpoints[i].Threshold <= breakpoints[i-1].Threshold {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("breakpoints must ascend: %.3f follows %.3f",
					breakpoints[i].Threshold, breakpoints[i-1].Threshold),
			}
		}
	}
	bps := make([]Breakpoint, len(breakpoints))
	copy(bps, breakpoints)
	return &ContinuousSignal{Value: value, Unit: unit, breakpoints: bps, above: above}, nil
}

// Classify walks the breakpoints ascending and returns the label of the
// first breakpoint whose threshold is strictly greater than the value.
// A value on a threshold therefore belongs to the next (worse) tier.
// Values beyond every threshold get the overflow label.
func (s *ContinuousSignal) Classify() model.Category {
	for _, bp := range s.breakpoints {
		if bp.Threshold > s.Value {
			return bp.Label
		}
	}
	return s.above
}

// NewMercurySignal builds a mercury concentration signal with the FDA
// consumption-guidance thresholds: below 0.15 ppm best choices, below
// 0.46 ppm good choices, above that avoid.
func NewMercurySignal(ppm float64) *ContinuousSignal {
	sig, err := NewContinuousSignal(ppm, "ppm", []Breakpoint{
		{Threshold: 0.15, Label: model.CategoryLow},
		{Threshold: 0.46, Label: model.CategoryModerate},
	}, model.CategoryHigh)
	if err != nil {
		// Static thresholds; unreachable unless the table above is edited.
		panic(err)
	}
	return sig
}

// CategoricalSignal is a hazard or quality grade expressed as an enumerated
// code with a fixed lookup table, e.g. a Nutri-Score letter or a NOVA tier.
// Immutable once constructed.
type CategoricalSignal struct {
	Code  string
	table map[string]model.Category
}

// NewCategoricalSignal builds a categorical signal. Table keys are
// case-normalized to uppercase.
func NewCategoricalSignal(code string, table map[string]model.Category) (*CategoricalSignal, error) {
	if len(table) == 0 {
		return nil, &ConfigurationError{Reason: "lookup table must not be empty"}
	}
	norm := make(map[string]model.Category, len(table))
	for k, v := range table {
		norm[strings.ToUpper(k)] = v
	}
	return &CategoricalSignal{Code: code, table: norm}, nil
}

// Classify looks the code up in the table. Unmapped codes return
// CategoryUnknown, never an error.
func (s *CategoricalSignal) Classify() model.Category {
	if cat, ok := s.table[strings.ToUpper(strings.TrimSpace(s.Code))]; ok {
		return cat
	}
	return model.CategoryUnknown
}
