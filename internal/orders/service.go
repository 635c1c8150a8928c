package orders

import (
	"context"

	"go.uber.org/zap"
)

// Service validates order requests and delegates the atomic work to the
// Store. It keeps no state between calls.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Place checks request shape first; everything that needs current product
// state happens inside the store's atomic unit. The same request submitted
// twice creates two orders; there is no dedup key.
func (s *Service) Place(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	if in.ProductID == "" {
		return nil, validation("productId is required")
	}
	if in.Qty <= 0 {
		return nil, validation("quantity must be positive")
	}
	if in.Address == "" {
		return nil, validation("address is required")
	}
	if in.Phone == "" {
		return nil, validation("phone is required")
	}

	o, err := s.store.PlaceOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("product_id", o.ProductID),
		zap.Int("qty", o.Qty),
		zap.Int("total_cents", o.TotalCents))
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	return s.store.ListOrders(ctx, f)
}

// UpdateStatus only checks membership in the closed set; any member may
// move to any other.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, validation("status must be one of PENDING, DELIVERED, CANCELED")
	}
	o, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("order status updated",
		zap.String("order_id", id),
		zap.String("status", string(status)))
	return o, nil
}

// Delete removes an order when the caller owns it or is an admin. Stock
// debited at placement stays debited.
func (s *Service) Delete(ctx context.Context, id, callerID string, callerIsAdmin bool) error {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if o.UserID != callerID && !callerIsAdmin {
		return ErrForbidden
	}
	return s.store.DeleteOrder(ctx, id)
}
