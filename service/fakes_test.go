package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"storefront-backend/metrics"
	"storefront-backend/model"
	"storefront-backend/payment"
	"storefront-backend/store"
)

// memStore is an in-memory store.Store whose checkout transactions stage
// their writes and serialize on a single lock, mirroring how the database
// serializes conflicting checkouts. Commit errors can be injected to
// exercise the retry path.
type memStore struct {
	mu        sync.Mutex
	products  map[string]model.Product
	orders    map[string]model.Order
	addresses map[string]model.ShippingAddress

	commitErrs []error
}

func newMemStore(products ...model.Product) *memStore {
	s := &memStore{
		products:  map[string]model.Product{},
		orders:    map[string]model.Order{},
		addresses: map[string]model.ShippingAddress{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memStore) CreateProduct(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

func (s *memStore) UpdateProduct(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	s.products[p.ID] = p
	return nil
}

func (s *memStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.products, id)
	return nil
}

func (s *memStore) GetProduct(_ context.Context, id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *memStore) ListProducts(_ context.Context, categoryID string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Product{}
	for _, p := range s.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) GetStock(_ context.Context, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return p.Stock, nil
}

func (s *memStore) UpdateStock(_ context.Context, productID string, newStock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Stock = newStock
	s.products[productID] = p
	return nil
}

func (s *memStore) CreateCategory(context.Context, model.Category) error { return nil }
func (s *memStore) UpdateCategory(context.Context, model.Category) error { return nil }
func (s *memStore) DeleteCategory(context.Context, string) error         { return nil }
func (s *memStore) GetCategory(context.Context, string) (model.Category, error) {
	return model.Category{}, sql.ErrNoRows
}
func (s *memStore) ListCategories(context.Context) ([]model.Category, error) { return nil, nil }

func (s *memStore) GetOrder(_ context.Context, id string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, sql.ErrNoRows
	}
	return o, nil
}

func (s *memStore) ListPaidOrders(_ context.Context, userID string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Order{}
	for _, o := range s.orders {
		if o.UserID == userID && o.PaymentStatus == model.PaymentStatusPaid {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) SetPaymentStatus(_ context.Context, orderID string, status model.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return sql.ErrNoRows
	}
	o.PaymentStatus = status
	s.orders[orderID] = o
	return nil
}

func (s *memStore) BeginCheckout(context.Context) (store.CheckoutTx, error) {
	s.mu.Lock()
	stock := map[string]int{}
	for id, p := range s.products {
		stock[id] = p.Stock
	}
	return &memTx{s: s, stock: stock}, nil
}

func (s *memStore) Close() error { return nil }

type memTx struct {
	s         *memStore
	stock     map[string]int
	orders    []model.Order
	addresses []model.ShippingAddress
	done      bool
}

func (t *memTx) ProductForUpdate(_ context.Context, productID string) (model.Product, error) {
	p, ok := t.s.products[productID]
	if !ok {
		return model.Product{}, sql.ErrNoRows
	}
	p.Stock = t.stock[productID]
	return p, nil
}

func (t *memTx) InsertAddress(_ context.Context, addr model.ShippingAddress) error {
	t.addresses = append(t.addresses, addr)
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, order model.Order) error {
	t.orders = append(t.orders, order)
	return nil
}

func (t *memTx) DecrementStock(_ context.Context, productID string, quantity int) error {
	if t.stock[productID] < quantity {
		return store.ErrInsufficientStock
	}
	t.stock[productID] -= quantity
	return nil
}

func (t *memTx) Commit() error {
	if len(t.s.commitErrs) > 0 {
		err := t.s.commitErrs[0]
		t.s.commitErrs = t.s.commitErrs[1:]
		if err != nil {
			t.done = true
			t.s.mu.Unlock()
			return err
		}
	}
	for id, stock := range t.stock {
		p := t.s.products[id]
		p.Stock = stock
		t.s.products[id] = p
	}
	for _, addr := range t.addresses {
		t.s.addresses[addr.ID] = addr
	}
	for _, o := range t.orders {
		t.s.orders[o.ID] = o
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

// fakeProvider records session requests and can be told to fail.
type fakeProvider struct {
	mu      sync.Mutex
	err     error
	calls   int
	lastReq payment.SessionRequest
}

func (f *fakeProvider) CreateSession(_ context.Context, req payment.SessionRequest) (payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return payment.Session{}, f.err
	}
	return payment.Session{ID: "cs_" + req.OrderID, URL: "https://pay.example.com/" + req.OrderID}, nil
}

func newTestService(st store.Store, provider payment.Provider) *Service {
	return NewService(st, provider, Config{
		FrontendURL:   "https://shop.example.com",
		PublicBaseURL: "https://api.example.com",
	}, metrics.New(prometheus.NewRegistry()))
}
