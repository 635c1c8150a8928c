package orders_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/justmahmoud31/Ryo-Server/internal/orders"
)

// memStore honors the Store contract in memory: the mutex plays the role of
// the database's row lock, so PlaceOrder is all-or-nothing and concurrent
// decrements against one product serialize.
type memStore struct {
	mu       sync.Mutex
	products map[string]*memProduct
	orders   map[string]*orders.Order
	failNext bool
}

type memProduct struct {
	priceCents int
	stock      int
	colors     map[string]bool
	sizes      map[string]bool
}

var errCommitFailed = errors.New("commit failed")

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*memProduct{},
		orders:   map[string]*orders.Order{},
	}
}

func (s *memStore) addProduct(id string, priceCents, stock int) *memProduct {
	p := &memProduct{
		priceCents: priceCents,
		stock:      stock,
		colors:     map[string]bool{},
		sizes:      map[string]bool{},
	}
	s.products[id] = p
	return p
}

func (s *memStore) PlaceOrder(ctx context.Context, in orders.PlaceOrderInput) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[in.ProductID]
	if !ok {
		return nil, orders.ErrProductNotFound
	}
	if in.ColorID != "" && !p.colors[in.ColorID] {
		return nil, &orders.ValidationError{Msg: "selection not available for this product"}
	}
	if in.SizeID != "" && !p.sizes[in.SizeID] {
		return nil, &orders.ValidationError{Msg: "selection not available for this product"}
	}
	if p.stock < in.Qty {
		return nil, orders.ErrInsufficientStock
	}
	if s.failNext {
		s.failNext = false
		return nil, errCommitFailed
	}

	o := &orders.Order{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		ProductID:  in.ProductID,
		Qty:        in.Qty,
		TotalCents: p.priceCents * in.Qty,
		Address:    in.Address,
		Phone:      in.Phone,
		ColorID:    in.ColorID,
		SizeID:     in.SizeID,
		Status:     orders.StatusPending,
	}
	s.orders[o.ID] = o
	p.stock -= in.Qty
	return o, nil
}

func (s *memStore) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) ListOrders(ctx context.Context, f orders.ListFilter) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []orders.Order{}
	for _, o := range s.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.ProductID != "" && o.ProductID != f.ProductID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (s *memStore) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return orders.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *memStore) stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func newService(store orders.Store) *orders.Service {
	return orders.NewService(store, zap.NewNop())
}

func input(productID string, qty int) orders.PlaceOrderInput {
	return orders.PlaceOrderInput{
		UserID:    "user-1",
		ProductID: productID,
		Qty:       qty,
		Address:   "1 Main St",
		Phone:     "+201012204095",
	}
}

func TestPlaceDecrementsStock(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 2500, 10)
	svc := newService(store)

	o, err := svc.Place(context.Background(), input("p1", 3))
	require.NoError(t, err)

	assert.Equal(t, 7500, o.TotalCents)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, 7, store.stock("p1"))
}

func TestPlaceValidation(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 5)
	svc := newService(store)

	cases := []struct {
		name string
		in   orders.PlaceOrderInput
	}{
		{"missing product", orders.PlaceOrderInput{Qty: 1, Address: "a", Phone: "p"}},
		{"zero qty", orders.PlaceOrderInput{ProductID: "p1", Qty: 0, Address: "a", Phone: "p"}},
		{"negative qty", orders.PlaceOrderInput{ProductID: "p1", Qty: -2, Address: "a", Phone: "p"}},
		{"missing address", orders.PlaceOrderInput{ProductID: "p1", Qty: 1, Phone: "p"}},
		{"missing phone", orders.PlaceOrderInput{ProductID: "p1", Qty: 1, Address: "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Place(context.Background(), tc.in)
			var ve *orders.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
	assert.Equal(t, 5, store.stock("p1"))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceProductNotFound(t *testing.T) {
	svc := newService(newMemStore())
	_, err := svc.Place(context.Background(), input("missing", 1))
	require.ErrorIs(t, err, orders.ErrProductNotFound)
}

func TestPlaceSelectionMustBelongToProduct(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("p1", 1000, 5)
	p.colors["red"] = true
	p.sizes["m"] = true
	svc := newService(store)

	in := input("p1", 1)
	in.ColorID = "blue"
	_, err := svc.Place(context.Background(), in)
	var ve *orders.ValidationError
	require.ErrorAs(t, err, &ve)

	in = input("p1", 1)
	in.SizeID = "xl"
	_, err = svc.Place(context.Background(), in)
	require.ErrorAs(t, err, &ve)

	assert.Equal(t, 0, store.orderCount())
	assert.Equal(t, 5, store.stock("p1"))

	in = input("p1", 1)
	in.ColorID = "red"
	in.SizeID = "m"
	o, err := svc.Place(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "red", o.ColorID)
	assert.Equal(t, "m", o.SizeID)
}

func TestPlaceInsufficientStock(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 2)
	svc := newService(store)

	_, err := svc.Place(context.Background(), input("p1", 3))
	require.ErrorIs(t, err, orders.ErrInsufficientStock)
	assert.Equal(t, 2, store.stock("p1"))
	assert.Equal(t, 0, store.orderCount())
}

func TestTotalFrozenAfterPriceChange(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 10)
	svc := newService(store)

	o, err := svc.Place(context.Background(), input("p1", 2))
	require.NoError(t, err)
	require.Equal(t, 2000, o.TotalCents)

	store.mu.Lock()
	store.products["p1"].priceCents = 9999
	store.mu.Unlock()

	got, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000, got.TotalCents)
}

func TestConcurrentPlacementsExactStock(t *testing.T) {
	const n, qty = 20, 3
	store := newMemStore()
	store.addProduct("p1", 500, n*qty)
	svc := newService(store)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := svc.Place(context.Background(), input("p1", qty))
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 0, store.stock("p1"))
	assert.Equal(t, n, store.orderCount())
}

func TestConcurrentPlacementsOversubscribed(t *testing.T) {
	const n, qty = 20, 3
	store := newMemStore()
	store.addProduct("p1", 500, n*qty)
	svc := newService(store)

	errs := make(chan error, n+1)
	var wg sync.WaitGroup
	for i := 0; i <= n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Place(context.Background(), input("p1", qty))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, short int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, orders.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, n, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, 0, store.stock("p1"))
}

func TestStoreFaultLeavesNothing(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 5)
	store.failNext = true
	svc := newService(store)

	_, err := svc.Place(context.Background(), input("p1", 2))
	require.ErrorIs(t, err, errCommitFailed)
	assert.Equal(t, 5, store.stock("p1"))
	assert.Equal(t, 0, store.orderCount())
}

func TestDoubleSubmissionCreatesTwoOrders(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 10)
	svc := newService(store)

	a, err := svc.Place(context.Background(), input("p1", 2))
	require.NoError(t, err)
	b, err := svc.Place(context.Background(), input("p1", 2))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 6, store.stock("p1"))
	assert.Equal(t, 2, store.orderCount())
}

func TestUpdateStatus(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 5)
	svc := newService(store)

	o, err := svc.Place(context.Background(), input("p1", 1))
	require.NoError(t, err)

	// every member of the set may move to every other
	for _, from := range []orders.Status{orders.StatusDelivered, orders.StatusCanceled, orders.StatusPending} {
		got, err := svc.UpdateStatus(context.Background(), o.ID, from)
		require.NoError(t, err)
		assert.Equal(t, from, got.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), o.ID, orders.Status("SHIPPED"))
	var ve *orders.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.UpdateStatus(context.Background(), "missing", orders.StatusCanceled)
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestDeleteAuthorization(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 5)
	svc := newService(store)

	o, err := svc.Place(context.Background(), input("p1", 2))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), o.ID, "someone-else", false)
	require.ErrorIs(t, err, orders.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), o.ID, "user-1", false))
	// deletion does not give the stock back
	assert.Equal(t, 3, store.stock("p1"))

	o2, err := svc.Place(context.Background(), input("p1", 1))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), o2.ID, "admin-7", true))

	err = svc.Delete(context.Background(), "missing", "user-1", true)
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", 1000, 10)
	store.addProduct("p2", 2000, 10)
	svc := newService(store)

	for i := 0; i < 3; i++ {
		in := input("p1", 1)
		in.UserID = fmt.Sprintf("user-%d", i%2)
		_, err := svc.Place(context.Background(), in)
		require.NoError(t, err)
	}
	in := input("p2", 1)
	_, err := svc.Place(context.Background(), in)
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), orders.ListFilter{UserID: "user-0"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	byProduct, err := svc.List(context.Background(), orders.ListFilter{ProductID: "p2"})
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)
}
