package services

import (
	"cart-app/models"
	"cart-app/repositories"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidCoupon     = errors.New("coupon does not exist")
	ErrCartEmpty         = fmt.Errorf("%w: cart is empty", ErrInvalidCoupon)
	ErrCouponUnknown     = fmt.Errorf("%w: unknown code", ErrInvalidCoupon)
	ErrAlreadyDiscounted = fmt.Errorf("%w: a discount is already applied", ErrInvalidCoupon)

	ErrItemNotFound     = errors.New("item is not in the cart")
	ErrInvalidDirection = errors.New("direction must be up or down")
)

// CartStorage persists the cart entries; *repositories.CartStore implements it.
type CartStorage interface {
	Load(ctx context.Context) ([]models.CartEntry, error)
	Save(ctx context.Context, entries []models.CartEntry) error
	Clear(ctx context.Context) error
}

const subscriberBuffer = 16

// CartService owns the cart state shown to the user. Every mutation
// recomputes the total and emits a CartEvent to subscribers.
type CartService struct {
	store    CartStorage
	resolver *ProductResolver
	coupons  *CouponService
	orders   *OrderService
	tracker  ProductIDTracker
	logger   *zap.Logger

	mu              sync.Mutex
	isLoading       bool
	lineItems       []models.LineItem
	total           float64
	catalog         models.CouponCatalog
	discount        float64
	discountApplied bool
	fetchErrors     []string
	subscribers     map[int]chan models.CartEvent
	nextSubscriber  int
}

func NewCartService(
	store CartStorage,
	resolver *ProductResolver,
	coupons *CouponService,
	orders *OrderService,
	tracker ProductIDTracker,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		store:       store,
		resolver:    resolver,
		coupons:     coupons,
		orders:      orders,
		tracker:     tracker,
		logger:      logger,
		isLoading:   true,
		lineItems:   []models.LineItem{},
		catalog:     models.CouponCatalog{},
		subscribers: map[int]chan models.CartEvent{},
	}
}

// ComputeTotal sums price times quantity over items.
func ComputeTotal(items []models.LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Item.Price * float64(it.Quantity)
	}
	return total
}

// Initialize resolves the stored cart and fetches the coupon catalog
// concurrently. Loading ends when the products are resolved, whether or not
// the coupons have arrived. Fetch failures are logged and listed in the view.
func (s *CartService) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	s.fetchErrors = nil
	s.mu.Unlock()

	entries := s.loadEntries(ctx)

	var g errgroup.Group
	g.Go(func() error {
		s.resolveProducts(ctx, entries)
		return nil
	})
	g.Go(func() error {
		s.loadCoupons(ctx)
		return nil
	})
	_ = g.Wait()
}

func (s *CartService) resolveProducts(ctx context.Context, entries []models.CartEntry) {
	result := s.resolver.ResolveAll(ctx, s.resolver.ToResourceLocators(entries))

	s.mu.Lock()
	defer s.mu.Unlock()

	// The store may have changed while the fetch was in flight.
	stored := s.loadEntries(ctx)
	s.lineItems = reconcile(result.Items, stored)
	s.trackLocked(stored)
	for _, f := range result.Failures {
		s.fetchErrors = append(s.fetchErrors, fmt.Sprintf("product %d: %v", f.ProductID, f.Err))
	}
	s.isLoading = false
	s.recomputeLocked()
	s.publishLocked(models.EventLoaded)
}

// reconcile keeps the resolved items still present in stored, in order, with
// the stored quantities. Duplicate ids are matched entry by entry.
func reconcile(items []models.LineItem, stored []models.CartEntry) []models.LineItem {
	quantities := map[int][]int{}
	for _, e := range stored {
		quantities[e.ID] = append(quantities[e.ID], e.Quantity)
	}

	kept := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		q := quantities[it.Item.ID]
		if len(q) == 0 {
			continue
		}
		it.Quantity = q[0]
		quantities[it.Item.ID] = q[1:]
		kept = append(kept, it)
	}
	return kept
}

func (s *CartService) trackLocked(entries []models.CartEntry) {
	if s.tracker == nil {
		return
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	s.tracker.SetProductIDs(ids)
}

func (s *CartService) loadCoupons(ctx context.Context) {
	catalog, err := s.coupons.FetchCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("coupon catalog fetch failed", zap.Error(err))
		s.fetchErrors = append(s.fetchErrors, fmt.Sprintf("coupons: %v", err))
		return
	}
	s.catalog = catalog
	s.publishLocked(models.EventCouponsLoaded)
}

// loadEntries never fails: unreadable storage is an empty cart.
func (s *CartService) loadEntries(ctx context.Context) []models.CartEntry {
	entries, err := s.store.Load(ctx)
	if err == nil {
		return entries
	}

	if errors.Is(err, repositories.ErrCorruptCart) {
		s.logger.Warn("stored cart is malformed, treating as empty", zap.Error(err))
	} else {
		s.logger.Error("failed to load stored cart", zap.Error(err))
	}
	return []models.CartEntry{}
}

// RemoveItem drops productID from the cart. Removing an absent id is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

func (s *CartService) removeLocked(ctx context.Context, productID int) error {
	kept := make([]models.LineItem, 0, len(s.lineItems))
	for _, it := range s.lineItems {
		if it.Item.ID != productID {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(s.lineItems)

	if s.tracker != nil {
		s.tracker.RemoveProductID(productID)
	}

	entries := s.loadEntries(ctx)
	stored := make([]models.CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != productID {
			stored = append(stored, e)
		}
	}
	if len(stored) != len(entries) {
		if err := s.store.Save(ctx, stored); err != nil {
			return fmt.Errorf("remove product %d: %w", productID, err)
		}
		removed = true
	}

	if !removed {
		return nil
	}

	s.lineItems = kept
	s.recomputeLocked()
	s.logger.Info("item removed", zap.Int("product_id", productID))
	s.publishLocked(models.EventItemRemoved)
	return nil
}

// ChangeQuantity moves the quantity of productID one step. Up has no ceiling;
// a step down that reaches zero removes the item.
func (s *CartService) ChangeQuantity(ctx context.Context, productID int, direction models.Direction) error {
	if direction != models.DirectionUp && direction != models.DirectionDown {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, it := range s.lineItems {
		if it.Item.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrItemNotFound, productID)
	}

	quantity := s.lineItems[idx].Quantity
	switch direction {
	case models.DirectionUp:
		quantity++
	case models.DirectionDown:
		if quantity >= 1 {
			quantity--
		}
	}

	if quantity == 0 {
		return s.removeLocked(ctx, productID)
	}

	s.lineItems[idx].Quantity = quantity

	entries := s.loadEntries(ctx)
	for i := range entries {
		if entries[i].ID == productID {
			entries[i].Quantity = quantity
		}
	}
	if err := s.store.Save(ctx, entries); err != nil {
		return fmt.Errorf("change quantity of product %d: %w", productID, err)
	}

	s.recomputeLocked()
	s.publishLocked(models.EventQuantityChanged)
	return nil
}

// ApplyCoupon discounts the total once per session.
func (s *CartService) ApplyCoupon(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lineItems) == 0 {
		return ErrCartEmpty
	}
	coupon, ok := s.catalog[code]
	if !ok {
		return ErrCouponUnknown
	}
	if s.discountApplied {
		return ErrAlreadyDiscounted
	}

	s.discount = coupon.Discount
	s.discountApplied = true
	s.total = math.Floor(s.total * coupon.Discount)

	s.logger.Info("coupon applied", zap.String("code", code), zap.Float64("total", s.total))
	s.publishLocked(models.EventCouponApplied)
	return nil
}

// PlaceOrder submits the current cart under name. The stored cart is cleared
// once the remote store accepts the order; a failed submission leaves it as is.
func (s *CartService) PlaceOrder(ctx context.Context, name string) (models.OrderReceipt, error) {
	s.mu.Lock()
	order := models.OrderSubmission{
		Name:            name,
		OrderedProducts: append([]models.LineItem{}, s.lineItems...),
		Total:           s.total,
	}
	s.mu.Unlock()

	receipt, err := s.orders.Submit(ctx, order)
	if err != nil {
		s.logger.Error("order submission failed", zap.String("name", name), zap.Error(err))
		return models.OrderReceipt{}, fmt.Errorf("place order: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return receipt, fmt.Errorf("order %q placed but cart not cleared: %w", receipt.Name, err)
	}
	s.lineItems = []models.LineItem{}
	s.trackLocked(nil)
	s.recomputeLocked()

	s.logger.Info("order placed",
		zap.String("order", receipt.Name),
		zap.String("name", name),
		zap.Float64("total", order.Total))
	s.publishLocked(models.EventOrderPlaced)
	return receipt, nil
}

// Reset starts a new session: the list is emptied and a coupon may be used
// again. The coupon catalog is kept.
func (s *CartService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isLoading = true
	s.lineItems = []models.LineItem{}
	s.discount = 0
	s.discountApplied = false
	s.fetchErrors = nil
	s.recomputeLocked()
	s.publishLocked(models.EventReset)
}

// View returns the current snapshot. Once a coupon is applied the total stays
// discounted, so later quantity changes report floor(sum * discount).
func (s *CartService) View() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe returns a channel of events and a func that closes it. Events
// are dropped for a subscriber whose buffer is full.
func (s *CartService) Subscribe() (<-chan models.CartEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubscriber
	s.nextSubscriber++
	ch := make(chan models.CartEvent, subscriberBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *CartService) recomputeLocked() {
	total := ComputeTotal(s.lineItems)
	if s.discountApplied {
		total = math.Floor(total * s.discount)
	}
	s.total = total
}

func (s *CartService) viewLocked() models.CartView {
	return models.CartView{
		IsLoading:     s.isLoading,
		Products:      append([]models.LineItem{}, s.lineItems...),
		Total:         s.total,
		NotDiscounted: !s.discountApplied,
		Errors:        append([]string(nil), s.fetchErrors...),
	}
}

func (s *CartService) publishLocked(t models.CartEventType) {
	event := models.CartEvent{Type: t, View: s.viewLocked()}
	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			s.logger.Debug("dropping cart event for slow subscriber", zap.Int("subscriber", id), zap.String("event", string(t)))
		}
	}
}
