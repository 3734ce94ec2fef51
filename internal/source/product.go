package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/worker"
)

// ProductClient fetches product descriptions from the Open Food Facts API.
// It implements ProductSource.
type ProductClient struct {
	http    *httpClient
	baseURL string
}

// NewProductClient creates a product catalog client.
func NewProductClient(baseURL string, httpCfg model.HTTPConfig, limiter *worker.Limiter) *ProductClient {
	return &ProductClient{
		http:    newHTTPClient(httpCfg, limiter),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// productResponse is the Open Food Facts product payload. A status of zero
// means the barcode is unknown even when the HTTP call succeeds.
type productResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Product struct {
		ProductName     string   `json:"product_name"`
		Brands          string   `json:"brands"`
		CategoriesTags  []string `json:"categories_tags"`
		IngredientsText string   `json:"ingredients_text"`
		AllergensTags   []string `json:"allergens_tags"`
		NutriScoreGrade string   `json:"nutriscore_grade"`
		NovaGroup       int      `json:"nova_group"`
		EcoScoreGrade   string   `json:"ecoscore_grade"`
		ImageURL        string   `json:"image_url"`
	} `json:"product"`
}

// GetByIdentifier looks up a product by barcode. An unknown barcode is
// ErrNotFound; transport and parse failures are UpstreamError.
func (c *ProductClient) GetByIdentifier(ctx context.Context, id string) (*model.ProductRecord, error) {
	reqURL := fmt.Sprintf("%s/product/%s.json", c.baseURL, id)

	var resp productResponse
	if err := c.http.getJSON(ctx, reqURL, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UpstreamError{Source: "product", Op: "get", Err: err}
	}
	if resp.Status == 0 || resp.Product.ProductName == "" {
		return nil, ErrNotFound
	}

	return &model.ProductRecord{
		Barcode:     firstNonEmpty(resp.Code, id),
		Name:        resp.Product.ProductName,
		Brands:      resp.Product.Brands,
		Categories:  cleanTags(resp.Product.CategoriesTags),
		Ingredients: resp.Product.IngredientsText,
		Allergens:   cleanTags(resp.Product.AllergensTags),
		NutriScore:  strings.ToUpper(resp.Product.NutriScoreGrade),
		NovaGroup:   resp.Product.NovaGroup,
		EcoScore:    strings.ToUpper(resp.Product.EcoScoreGrade),
		ImageURL:    resp.Product.ImageURL,
	}, nil
}

// cleanTags strips the "en:" style language prefixes from taxonomy tags.
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if i := strings.Index(tag, ":"); i >= 0 {
			tag = tag[i+1:]
		}
		tag = strings.ReplaceAll(tag, "-", " ")
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
