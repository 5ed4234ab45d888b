package services

import (
	"cart-app/models"
	"cart-app/repositories"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductStore interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
}

type CouponStore interface {
	GetCatalog(ctx context.Context) (models.CouponCatalog, error)
	Upsert(ctx context.Context, code string, discount float64) error
	Delete(ctx context.Context, code string) error
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	List(ctx context.Context, groupID string, limit, offset int) ([]models.Order, int, error)
}

type ProductCacher interface {
	Get(ctx context.Context, id int) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
	Invalidate(ctx context.Context, id int) error
}

type OrderNotifier interface {
	SendOrderConfirmation(to, orderID, customer string, total float64) error
}

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *models.Order) error
}

var ErrProductNotFound = errors.New("product not found")

// CatalogService backs the catalog API consumed by the cart.
type CatalogService struct {
	products ProductStore
	coupons  CouponStore
	orders   OrderStore
	logger   *zap.Logger

	cache     ProductCacher
	notifier  OrderNotifier
	notifyTo  string
	publisher OrderPublisher
}

type CatalogOption func(*CatalogService)

func WithProductCache(cache ProductCacher) CatalogOption {
	return func(s *CatalogService) { s.cache = cache }
}

func WithOrderNotifier(notifier OrderNotifier, to string) CatalogOption {
	return func(s *CatalogService) {
		s.notifier = notifier
		s.notifyTo = to
	}
}

func WithOrderPublisher(publisher OrderPublisher) CatalogOption {
	return func(s *CatalogService) { s.publisher = publisher }
}

func NewCatalogService(products ProductStore, coupons CouponStore, orders OrderStore, logger *zap.Logger, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{products: products, coupons: coupons, orders: orders, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	if s.cache != nil {
		p, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("product cache read failed", zap.Int("product_id", id), zap.Error(err))
		}
		if p != nil {
			return p, nil
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.Warn("product cache write failed", zap.Int("product_id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.Image != "" {
		p.Image = req.Image
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Int("product_id", id), zap.Error(err))
	}
}

func (s *CatalogService) CouponCatalog(ctx context.Context) (models.CouponCatalog, error) {
	return s.coupons.GetCatalog(ctx)
}

func (s *CatalogService) UpsertCoupon(ctx context.Context, code string, discount float64) error {
	return s.coupons.Upsert(ctx, code, discount)
}

func (s *CatalogService) DeleteCoupon(ctx context.Context, code string) error {
	return s.coupons.Delete(ctx, code)
}

// PlaceOrder stores the submission under a fresh push id. Mail and event
// delivery failures are logged, never returned.
func (s *CatalogService) PlaceOrder(ctx context.Context, groupID string, sub models.OrderSubmission) (*models.Order, error) {
	order := &models.Order{
		ID:      uuid.NewString(),
		GroupID: groupID,
		Name:    sub.Name,
		Total:   sub.Total,
		Payload: sub,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	s.logger.Info("order stored",
		zap.String("order_id", order.ID),
		zap.String("group", groupID),
		zap.Int("lines", len(sub.OrderedProducts)))

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.Error("publish order placed failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if s.notifier != nil && s.notifyTo != "" {
		if err := s.notifier.SendOrderConfirmation(s.notifyTo, order.ID, order.Name, order.Total); err != nil {
			s.logger.Error("order mail failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

func (s *CatalogService) ListOrders(ctx context.Context, groupID string, limit, offset int) ([]models.Order, int, error) {
	return s.orders.List(ctx, groupID, limit, offset)
}
