package services

import (
	"cart-app/libs"
	"cart-app/models"
	"cart-app/repositories"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testGroup = "group-7"

// fakeRemote mimics the hosted catalog: unknown products answer null.
type fakeRemote struct {
	mu           sync.Mutex
	products     map[int]string
	failProducts map[int]bool
	coupons      string
	orderStatus  int
	orderReply   string

	productHits int
	couponHits  int
	orders      []json.RawMessage

	productGate    chan struct{}
	productArrived chan int
}

func newFakeRemote(t *testing.T) (*fakeRemote, *httptest.Server) {
	t.Helper()
	f := &fakeRemote{
		products:     map[int]string{},
		failProducts: map[int]bool{},
		coupons:      `{"SAVE":{"discount":0.5}}`,
		orderStatus:  http.StatusOK,
		orderReply:   `{"name":"-Nabc123"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeRemote) serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/products/") {
		f.mu.Lock()
		gate, arrived := f.productGate, f.productArrived
		f.mu.Unlock()
		if gate != nil {
			select {
			case arrived <- 1:
			default:
			}
			<-gate
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/products/"):
		f.productHits++
		id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/products/"), ".json"))
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if f.failProducts[id] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		body, ok := f.products[id]
		if !ok {
			body = "null"
		}
		io.WriteString(w, body)
	case r.URL.Path == "/couponCodes.json":
		f.couponHits++
		io.WriteString(w, f.coupons)
	case r.URL.Path == "/orders/"+testGroup+".json" && r.Method == http.MethodPost:
		data, _ := io.ReadAll(r.Body)
		f.orders = append(f.orders, data)
		w.WriteHeader(f.orderStatus)
		io.WriteString(w, f.orderReply)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeRemote) addProduct(id int, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = fmt.Sprintf(`{"id":%d,"name":"Product %d","price":%v,"category":"coffee"}`, id, id, price)
}

// holdProducts parks product requests until the returned func is called.
// Each parked request signals on arrived.
func (f *fakeRemote) holdProducts() (arrived <-chan int, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productGate = make(chan struct{})
	f.productArrived = make(chan int, 16)
	gate := f.productGate
	return f.productArrived, func() { close(gate) }
}

func (f *fakeRemote) hits() (products, coupons int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productHits, f.couponHits
}

type recordingTracker struct {
	removed []int
	current []int
}

func (r *recordingTracker) SetProductIDs(ids []int) {
	r.current = append([]int{}, ids...)
}

func (r *recordingTracker) RemoveProductID(id int) {
	r.removed = append(r.removed, id)
}

type fixture struct {
	remote  *fakeRemote
	storage *repositories.MemoryStorage
	store   *repositories.CartStore
	tracker *recordingTracker
	cart    *CartService
}

func newFixture(t *testing.T, stored string) *fixture {
	t.Helper()
	remote, srv := newFakeRemote(t)

	storage := repositories.NewMemoryStorage()
	if stored != "" {
		require.NoError(t, storage.SetItem(context.Background(), repositories.CartKey, stored))
	}
	store := repositories.NewCartStore(storage)

	api := libs.NewAPIClient(srv.URL, 2*time.Second)
	logger := zap.NewNop()
	tracker := &recordingTracker{}

	cart := NewCartService(
		store,
		NewProductResolver(api, 4, logger),
		NewCouponService(api),
		NewOrderService(api, testGroup, logger),
		tracker,
		logger,
	)
	return &fixture{remote: remote, storage: storage, store: store, tracker: tracker, cart: cart}
}

func (f *fixture) storedEntries(t *testing.T) []models.CartEntry {
	t.Helper()
	entries, err := f.store.Load(context.Background())
	require.NoError(t, err)
	return entries
}
