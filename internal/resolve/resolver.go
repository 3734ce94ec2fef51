// Package resolve joins the product catalog and the hazard feeds: a
// barcode resolves to the product's identity, its active hazards and its
// classified nutrition signals in one composite view.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/platewatch/platewatch/internal/classify"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/search"
	"github.com/platewatch/platewatch/internal/source"
)

// ErrInvalidIdentifier rejects a barcode before any network traffic.
var ErrInvalidIdentifier = errors.New("invalid product identifier")

// validLengths are the retail barcode formats accepted for lookup:
// EAN-8, UPC-A, EAN-13 and GTIN-14.
var validLengths = map[int]bool{8: true, 12: true, 13: true, 14: true}

// ValidateBarcode checks shape only, not checksum: non-empty, digits
// only, and one of the accepted lengths. Returns ErrInvalidIdentifier
// (wrapped with the reason) on failure.
func ValidateBarcode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: non-digit character", ErrInvalidIdentifier)
		}
	}
	if !validLengths[len(code)] {
		return fmt.Errorf("%w: length %d", ErrInvalidIdentifier, len(code))
	}
	return nil
}

// Resolver cross-references a product against the hazard feeds.
type Resolver struct {
	products source.ProductSource
	engine   *search.Engine
	opts     search.Options
	log      *slog.Logger
}

// NewResolver wires a resolver over a product catalog and a fan-out
// engine. opts bounds the hazard lookup per resolution.
func NewResolver(products source.ProductSource, engine *search.Engine, opts search.Options, log *slog.Logger) *Resolver {
	return &Resolver{products: products, engine: engine, opts: opts, log: log}
}

// Resolve validates the barcode, fetches the product and cross-references
// its name against the hazard feeds.
//
// An invalid barcode returns ErrInvalidIdentifier without touching any
// upstream. An unknown barcode passes source.ErrNotFound through. Hazard
// lookup failures degrade to an empty hazard list rather than failing the
// resolution; the product identity is still worth showing.
func (r *Resolver) Resolve(ctx context.Context, barcode string) (*model.CompositeRiskView, error) {
	if err := ValidateBarcode(barcode); err != nil {
		return nil, err
	}

	product, err := r.products.GetByIdentifier(ctx, barcode)
	if err != nil {
		return nil, err
	}

	var hazards []model.HazardRecord
	if term := product.SearchTerm(); term != "" {
		hazards = r.engine.SearchByKeywords(ctx, []string{term}, r.opts)
	} else {
		r.log.Debug("product has no searchable name", "barcode", barcode)
	}

	view := &model.CompositeRiskView{
		Subject:         product.Name,
		Product:         product,
		Hazards:         hazards,
		Signals:         nutritionSignals(product),
		WorstSeverity:   classify.WorstSeverity(hazards),
		HasActiveHazard: len(hazards) > 0,
		ResolvedAt:      time.Now().UTC(),
	}
	return view, nil
}

// nutritionSignals classifies whatever nutrition grades the catalog
// carries for the product. Missing grades yield no signal rather than an
// Unknown one.
func nutritionSignals(p *model.ProductRecord) []model.ClassifiedSignal {
	var signals []model.ClassifiedSignal

	if p.NutriScore != "" {
		signals = append(signals, model.ClassifiedSignal{
			Name:     "nutri-score",
			Value:    p.NutriScore,
			Category: classify.NutriScore(p.NutriScore),
			Label:    classify.NutriScoreInfo(p.NutriScore).Label,
		})
	}
	if p.NovaGroup != 0 {
		signals = append(signals, model.ClassifiedSignal{
			Name:     "nova-group",
			Value:    strconv.Itoa(p.NovaGroup),
			Category: classify.Nova(p.NovaGroup),
			Label:    classify.NovaInfo(p.NovaGroup).Label,
		})
	}
	return signals
}
