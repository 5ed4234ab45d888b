package routes

import (
	"cart-app/models"
	"cart-app/repositories"
	"context"
	"sort"
	"sync"
)

type memProducts struct {
	mu   sync.Mutex
	byID map[int]models.Product
}

func newMemProducts(products ...models.Product) *memProducts {
	m := &memProducts{byID: map[int]models.Product{}}
	for _, p := range products {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) GetAll(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memCoupons struct {
	mu      sync.Mutex
	catalog models.CouponCatalog
}

func (m *memCoupons) GetCatalog(_ context.Context) (models.CouponCatalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := models.CouponCatalog{}
	for code, c := range m.catalog {
		out[code] = c
	}
	return out, nil
}

func (m *memCoupons) Upsert(_ context.Context, code string, discount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog[code] = models.Coupon{Discount: discount}
	return nil
}

func (m *memCoupons) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalog[code]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.catalog, code)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) List(_ context.Context, groupID string, limit, offset int) ([]models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var group []models.Order
	for _, o := range m.orders {
		if o.GroupID == groupID {
			group = append(group, o)
		}
	}
	total := len(group)
	if offset >= total {
		return []models.Order{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return group[offset:end], total, nil
}

func (m *memOrders) all() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Order(nil), m.orders...)
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) Upsert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = len(m.users) + 1
	}
	m.users[u.Email] = *u
	return nil
}
