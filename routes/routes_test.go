package routes

import (
	"bytes"
	"cart-app/controllers"
	"cart-app/libs"
	"cart-app/models"
	"cart-app/repositories"
	"cart-app/services"
	"cart-app/utils"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "test-secret"
	testGroup  = "group-7"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type catalogFixture struct {
	router   *gin.Engine
	products *memProducts
	coupons  *memCoupons
	orders   *memOrders
	auth     *services.AuthService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	logger := zap.NewNop()

	f := &catalogFixture{
		products: newMemProducts(
			models.Product{ID: 1, Name: "Latte", Price: 10},
			models.Product{ID: 2, Name: "Croissant", Price: 5},
		),
		coupons: &memCoupons{catalog: models.CouponCatalog{"SAVE": {Discount: 0.5}}},
		orders:  &memOrders{},
	}
	catalog := services.NewCatalogService(f.products, f.coupons, f.orders, logger)
	f.auth = services.NewAuthService(&memUsers{users: map[string]models.User{}}, testSecret, time.Hour)

	f.router = gin.New()
	SetupCatalogRoutes(f.router, CatalogControllers{
		Catalog: controllers.NewCatalogController(catalog, logger),
		Product: controllers.NewProductController(catalog),
		Coupon:  controllers.NewCouponController(catalog),
		Order:   controllers.NewOrderController(catalog, testGroup),
		Auth:    controllers.NewAuthController(f.auth),
	}, testSecret)
	return f
}

type cartFixture struct {
	router  *gin.Engine
	cart    *services.CartService
	ids     *services.ProductIDSet
	storage *repositories.MemoryStorage
}

func newCartFixture(t *testing.T, baseURL, stored string) *cartFixture {
	t.Helper()
	logger := zap.NewNop()

	storage := repositories.NewMemoryStorage()
	require.NoError(t, storage.SetItem(context.Background(), repositories.CartKey, stored))

	var seed []int
	entries, err := repositories.DecodeCart(stored)
	require.NoError(t, err)
	for _, e := range entries {
		seed = append(seed, e.ID)
	}
	ids := services.NewProductIDSet(seed...)

	api := libs.NewAPIClient(baseURL, 2*time.Second)
	cart := services.NewCartService(
		repositories.NewCartStore(storage),
		services.NewProductResolver(api, 4, logger),
		services.NewCouponService(api),
		services.NewOrderService(api, testGroup, logger),
		ids,
		logger,
	)

	router := gin.New()
	SetupCartRoutes(router, controllers.NewCartController(cart, ids, logger))
	return &cartFixture{router: router, cart: cart, ids: ids, storage: storage}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type viewResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    models.CartView `json:"data"`
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) models.CartView {
	t.Helper()
	var resp viewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	assert.True(t, resp.Success)
	return resp.Data
}

func TestHealth(t *testing.T) {
	f := newCatalogFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","mode":"catalog"}`, rec.Body.String())
}

func TestCatalog_GetProduct(t *testing.T) {
	f := newCatalogFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/products/1.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Latte", p.Name)
	assert.Equal(t, 10.0, p.Price)

	for _, path := range []string{"/products/99.json", "/products/abc.json"} {
		rec = doJSON(t, f.router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "null", rec.Body.String(), path)
	}
}

func TestCatalog_CouponCodes(t *testing.T) {
	f := newCatalogFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/couponCodes.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"SAVE":{"discount":0.5}}`, rec.Body.String())
}

func TestCatalog_CreateOrder(t *testing.T) {
	f := newCatalogFixture(t)

	sub := models.OrderSubmission{
		Name:            "Ada",
		OrderedProducts: []models.LineItem{{Item: models.Product{ID: 1, Price: 10}, Quantity: 2}},
		Total:           20,
	}
	rec := doJSON(t, f.router, http.MethodPost, "/orders/"+testGroup+".json", sub)
	require.Equal(t, http.StatusOK, rec.Code)

	var receipt models.OrderReceipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.Name)

	stored := f.orders.all()
	require.Len(t, stored, 1)
	assert.Equal(t, receipt.Name, stored[0].ID)
	assert.Equal(t, testGroup, stored[0].GroupID)
	assert.Equal(t, "Ada", stored[0].Name)
	assert.Equal(t, 20.0, stored[0].Total)
}

func TestAdmin_RequiresAdminToken(t *testing.T) {
	f := newCatalogFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/admin/products", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, f.router, http.MethodGet, "/admin/products", nil, "Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := utils.GenerateToken(2, "user@example.com", "customer", testSecret, time.Hour)
	require.NoError(t, err)
	rec = doJSON(t, f.router, http.MethodGet, "/admin/products", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_ManageCatalog(t *testing.T) {
	f := newCatalogFixture(t)
	require.NoError(t, f.auth.EnsureAdmin(context.Background(), "admin@example.com", "s3cret"))

	rec := doJSON(t, f.router, http.MethodPost, "/auth/login", models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, f.router, http.MethodPost, "/auth/login", models.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)
	auth := []string{"Authorization", "Bearer " + login.Data.Token}

	rec = doJSON(t, f.router, http.MethodPost, "/admin/products",
		models.CreateProductRequest{ID: 5, Name: "Mocha", Price: 12.5}, auth...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, f.router, http.MethodGet, "/products/5.json", nil)
	assert.Contains(t, rec.Body.String(), `"Mocha"`)

	rec = doJSON(t, f.router, http.MethodPatch, "/admin/products/5", models.UpdateProductRequest{Price: 14}, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, f.router, http.MethodPatch, "/admin/products/404", models.UpdateProductRequest{Price: 14}, auth...)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, f.router, http.MethodDelete, "/admin/products/5", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, f.router, http.MethodGet, "/products/5.json", nil)
	assert.Equal(t, "null", rec.Body.String())

	rec = doJSON(t, f.router, http.MethodPut, "/admin/coupons/HALF", models.UpsertCouponRequest{Discount: 0.5}, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, f.router, http.MethodPut, "/admin/coupons/BAD", models.UpsertCouponRequest{Discount: 1.5}, auth...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodGet, "/couponCodes.json", nil)
	assert.JSONEq(t, `{"SAVE":{"discount":0.5},"HALF":{"discount":0.5}}`, rec.Body.String())

	rec = doJSON(t, f.router, http.MethodDelete, "/admin/coupons/NOPE", nil, auth...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_ListOrdersPaginates(t *testing.T) {
	f := newCatalogFixture(t)
	for _, name := range []string{"a", "b", "c"} {
		rec := doJSON(t, f.router, http.MethodPost, "/orders/"+testGroup+".json", models.OrderSubmission{Name: name})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	token, err := utils.GenerateToken(1, "admin@example.com", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	rec := doJSON(t, f.router, http.MethodGet, "/admin/orders?limit=2", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.HATEOASResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Meta.TotalItems)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Contains(t, resp.Links.Next, "page=2")
	assert.Empty(t, resp.Links.Prev)
}

func TestCart_FullSessionAgainstCatalog(t *testing.T) {
	catalog := newCatalogFixture(t)
	srv := httptest.NewServer(catalog.router)
	defer srv.Close()

	f := newCartFixture(t, srv.URL, `[{"id":1,"quantity":2},{"id":2,"quantity":1}]`)

	rec := doJSON(t, f.router, http.MethodPost, "/cart/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.False(t, view.IsLoading)
	require.Len(t, view.Products, 2)
	assert.Equal(t, 25.0, view.Total)
	assert.True(t, view.NotDiscounted)

	rec = doJSON(t, f.router, http.MethodPatch, "/cart/items/2/quantity", models.ChangeQuantityRequest{Direction: models.DirectionUp})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30.0, decodeView(t, rec).Total)

	rec = doJSON(t, f.router, http.MethodPost, "/cart/coupon", models.ApplyCouponRequest{Code: "SAVE"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, 15.0, view.Total)
	assert.False(t, view.NotDiscounted)

	rec = doJSON(t, f.router, http.MethodPost, "/cart/coupon", models.ApplyCouponRequest{Code: "SAVE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodPost, "/cart/order", models.PlaceOrderRequest{Name: "Ada"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var placed struct {
		Data models.OrderReceipt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	orders := catalog.orders.all()
	require.Len(t, orders, 1)
	assert.Equal(t, placed.Data.Name, orders[0].ID)
	assert.Equal(t, testGroup, orders[0].GroupID)
	assert.Equal(t, 15.0, orders[0].Total)
	assert.Len(t, orders[0].Payload.OrderedProducts, 2)

	raw, ok, err := f.storage.GetItem(context.Background(), repositories.CartKey)
	require.NoError(t, err)
	require.True(t, ok)
	entries, err := repositories.DecodeCart(raw)
	require.NoError(t, err)
	assert.Empty(t, entries)

	rec = doJSON(t, f.router, http.MethodGet, "/cart", nil)
	assert.Empty(t, decodeView(t, rec).Products)

	rec = doJSON(t, f.router, http.MethodGet, "/cart/product-ids", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ids struct {
		Data []int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	assert.Empty(t, ids.Data)
	assert.Empty(t, f.ids.IDs())
}

func TestCart_ReloadReseedsTrackedIDs(t *testing.T) {
	catalog := newCatalogFixture(t)
	srv := httptest.NewServer(catalog.router)
	defer srv.Close()

	f := newCartFixture(t, srv.URL, `[{"id":1,"quantity":1}]`)
	f.ids.SetProductIDs([]int{7, 8})
	require.NoError(t, f.storage.SetItem(context.Background(), repositories.CartKey, `[{"id":2,"quantity":1},{"id":1,"quantity":3}]`))

	rec := doJSON(t, f.router, http.MethodPost, "/cart/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2, 1}, f.ids.IDs())
	assert.Equal(t, 35.0, decodeView(t, rec).Total)
}

func TestCart_RemoveItemUpdatesTrackedIDs(t *testing.T) {
	catalog := newCatalogFixture(t)
	srv := httptest.NewServer(catalog.router)
	defer srv.Close()

	f := newCartFixture(t, srv.URL, `[{"id":1,"quantity":1},{"id":2,"quantity":1}]`)
	f.cart.Initialize(context.Background())

	rec := doJSON(t, f.router, http.MethodDelete, "/cart/items/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	require.Len(t, view.Products, 1)
	assert.Equal(t, 10.0, view.Total)

	rec = doJSON(t, f.router, http.MethodGet, "/cart/product-ids", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Product ids retrieved","data":[1]}`, rec.Body.String())
}

func TestCart_RequestErrors(t *testing.T) {
	catalog := newCatalogFixture(t)
	srv := httptest.NewServer(catalog.router)
	defer srv.Close()

	f := newCartFixture(t, srv.URL, `[{"id":1,"quantity":1}]`)
	f.cart.Initialize(context.Background())

	rec := doJSON(t, f.router, http.MethodDelete, "/cart/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodPatch, "/cart/items/1/quantity", map[string]string{"direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodPatch, "/cart/items/42/quantity", models.ChangeQuantityRequest{Direction: models.DirectionUp})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, f.router, http.MethodPost, "/cart/coupon", models.ApplyCouponRequest{Code: "NOPE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coupon does not exist")
}

func TestCart_PlaceOrderUnreachableCatalog(t *testing.T) {
	catalog := newCatalogFixture(t)
	srv := httptest.NewServer(catalog.router)

	stored := `[{"id":1,"quantity":1}]`
	f := newCartFixture(t, srv.URL, stored)
	f.cart.Initialize(context.Background())
	srv.Close()

	rec := doJSON(t, f.router, http.MethodPost, "/cart/order", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	raw, _, err := f.storage.GetItem(context.Background(), repositories.CartKey)
	require.NoError(t, err)
	assert.JSONEq(t, stored, raw)
	assert.Len(t, f.cart.View().Products, 1)
}
