package orders

import "context"

// Store is the persistence boundary of the order service. PlaceOrder must
// apply the order insert and the product stock decrement as one unit: either
// both are visible afterwards or neither is. Implementations serialize
// concurrent decrements against the same product so stock never goes
// negative.
type Store interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
