package classify

import (
	"strconv"
	"strings"

	"github.com/platewatch/platewatch/internal/model"
)

// GradeInfo describes one step of a consumer-facing grading scheme.
type GradeInfo struct {
	Grade       string         `json:"grade"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Category    model.Category `json:"category"`
}

// nutriScoreTable maps Nutri-Score letter grades to categories.
var nutriScoreTable = map[string]model.Category{
	"A": model.CategoryLow,
	"B": model.CategoryLow,
	"C": model.CategoryModerate,
	"D": model.CategoryHigh,
	"E": model.CategoryHigh,
}

// novaTable maps NOVA processing groups to categories.
var novaTable = map[string]model.Category{
	"1": model.CategoryLow,
	"2": model.CategoryModerate,
	"3": model.CategoryHigh,
	"4": model.CategoryHigh,
}

var nutriScoreInfo = map[string]GradeInfo{
	"A": {Grade: "A", Label: "Very Good Nutritional Quality", Description: "Foods with the best nutritional quality"},
	"B": {Grade: "B", Label: "Good Nutritional Quality", Description: "Foods with good nutritional quality"},
	"C": {Grade: "C", Label: "Average Nutritional Quality", Description: "Foods with average nutritional quality"},
	"D": {Grade: "D", Label: "Poor Nutritional Quality", Description: "Foods with poor nutritional quality"},
	"E": {Grade: "E", Label: "Bad Nutritional Quality", Description: "Foods with the worst nutritional quality"},
}

var novaInfo = map[string]GradeInfo{
	"1": {Grade: "1", Label: "Unprocessed or Minimally Processed", Description: "Fresh, dried, frozen foods with no added ingredients"},
	"2": {Grade: "2", Label: "Processed Culinary Ingredients", Description: "Oils, butter, sugar, salt extracted from foods"},
	"3": {Grade: "3", Label: "Processed Foods", Description: "Foods with added salt, sugar, or fat"},
	"4": {Grade: "4", Label: "Ultra-Processed Foods", Description: "Industrial formulations with additives and little whole food"},
}

// NutriScore classifies a Nutri-Score letter grade (A-E). Any other code
// is Unknown.
func NutriScore(grade string) model.Category {
	sig, err := NewCategoricalSignal(grade, nutriScoreTable)
	if err != nil {
		return model.CategoryUnknown
	}
	return sig.Classify()
}

// Nova classifies a NOVA processing group (1-4). Groups outside the range
// are Unknown.
func Nova(group int) model.Category {
	sig, err := NewCategoricalSignal(strconv.Itoa(group), novaTable)
	if err != nil {
		return model.CategoryUnknown
	}
	return sig.Classify()
}

// NutriScoreInfo returns display information for a Nutri-Score grade,
// including its classified category. Unknown grades return a zero GradeInfo
// with CategoryUnknown.
func NutriScoreInfo(grade string) GradeInfo {
	key := normalizeGrade(grade)
	info, ok := nutriScoreInfo[key]
	if !ok {
		return GradeInfo{Grade: key, Category: model.CategoryUnknown}
	}
	info.Category = nutriScoreTable[key]
	return info
}

// NovaInfo returns display information for a NOVA group.
func NovaInfo(group int) GradeInfo {
	key := strconv.Itoa(group)
	info, ok := novaInfo[key]
	if !ok {
		return GradeInfo{Grade: key, Category: model.CategoryUnknown}
	}
	info.Category = novaTable[key]
	return info
}

func normalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// mercuryLabels carry the FDA fish-consumption guidance wording for each
// mercury tier.
var mercuryLabels = map[model.Category]string{
	model.CategoryLow:      "Best Choice",
	model.CategoryModerate: "Good Choice",
	model.CategoryHigh:     "Avoid",
}

// MercuryInfo classifies a mercury concentration in ppm and attaches the
// consumption-guidance label for its tier.
func MercuryInfo(ppm float64) model.ClassifiedSignal {
	cat := NewMercurySignal(ppm).Classify()
	return model.ClassifiedSignal{
		Name:     "mercury",
		Value:    strconv.FormatFloat(ppm, 'f', -1, 64),
		Unit:     "ppm",
		Category: cat,
		Label:    mercuryLabels[cat],
	}
}
