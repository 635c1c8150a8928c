package orders

import "time"

type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	Qty        int       `json:"qty"`
	TotalCents int       `json:"total_cents"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	ColorID    string    `json:"color_id,omitempty"`
	SizeID     string    `json:"size_id,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaceOrderInput is the validated request the store applies atomically.
// ColorID/SizeID are optional; when set they must belong to the product.
type PlaceOrderInput struct {
	UserID    string
	ProductID string
	Qty       int
	Address   string
	Phone     string
	ColorID   string
	SizeID    string
}

type ListFilter struct {
	UserID    string
	ProductID string
	Status    Status
	Page      int
	Limit     int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
}

func (f ListFilter) Offset() int { return (f.Page - 1) * f.Limit }
