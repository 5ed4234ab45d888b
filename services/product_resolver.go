package services

import (
	"cart-app/libs"
	"cart-app/models"
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ResourceLocator struct {
	URL       string
	ProductID int
	Quantity  int
}

type ResolveFailure struct {
	ProductID int
	URL       string
	Err       error
}

type ResolveResult struct {
	Items    []models.LineItem
	Failures []ResolveFailure
}

type ProductResolver struct {
	api         RemoteAPI
	concurrency int
	logger      *zap.Logger
}

// NewProductResolver caps parallel fetches at concurrency; zero or less means
// no cap.
func NewProductResolver(api RemoteAPI, concurrency int, logger *zap.Logger) *ProductResolver {
	return &ProductResolver{api: api, concurrency: concurrency, logger: logger}
}

func (r *ProductResolver) ToResourceLocators(entries []models.CartEntry) []ResourceLocator {
	locators := make([]ResourceLocator, 0, len(entries))
	for _, e := range entries {
		locators = append(locators, ResourceLocator{
			URL:       r.api.URL(fmt.Sprintf("products/%d.json", e.ID)),
			ProductID: e.ID,
			Quantity:  e.Quantity,
		})
	}
	return locators
}

// ResolveAll fetches every locator in parallel. Results keep the locator order
// and a failed fetch never cancels the others.
func (r *ProductResolver) ResolveAll(ctx context.Context, locators []ResourceLocator) ResolveResult {
	if len(locators) == 0 {
		return ResolveResult{Items: []models.LineItem{}}
	}

	products := make([]*models.Product, len(locators))
	errs := make([]error, len(locators))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, loc := range locators {
		g.Go(func() error {
			products[i], errs[i] = r.fetch(ctx, loc.URL)
			return nil
		})
	}
	_ = g.Wait()

	result := ResolveResult{Items: make([]models.LineItem, 0, len(locators))}
	for i, loc := range locators {
		if errs[i] != nil {
			r.logger.Warn("product fetch failed",
				zap.Int("product_id", loc.ProductID),
				zap.String("url", loc.URL),
				zap.Error(errs[i]))
			result.Failures = append(result.Failures, ResolveFailure{ProductID: loc.ProductID, URL: loc.URL, Err: errs[i]})
			continue
		}
		result.Items = append(result.Items, models.LineItem{Item: *products[i], Quantity: loc.Quantity})
	}
	return result
}

func (r *ProductResolver) fetch(ctx context.Context, url string) (*models.Product, error) {
	var product *models.Product
	if err := r.api.GetJSON(ctx, url, &product); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s: product not found", libs.ErrInvalidResponse, url)
	}
	return product, nil
}
