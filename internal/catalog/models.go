package catalog

import "time"

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type Size struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
}

type Product struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	CategoryID   string         `json:"category_id"`
	PriceCents   int            `json:"price_cents"`
	Stock        int            `json:"stock"`
	TargetGender string         `json:"target_gender,omitempty"`
	Material     string         `json:"material,omitempty"`
	Description  string         `json:"description"`
	CoverImage   string         `json:"cover_image"`
	IsDeleted    bool           `json:"-"`
	Colors       []Color        `json:"colors"`
	Sizes        []Size         `json:"sizes"`
	Images       []ProductImage `json:"images"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewProduct carries everything a product insert needs, associations included.
type NewProduct struct {
	Name         string
	CategoryID   string
	PriceCents   int
	Stock        int
	TargetGender string
	Material     string
	Description  string
	CoverImage   string
	ColorIDs     []string
	SizeIDs      []string
	ImageURLs    []string
}

// ProductUpdate patches only the fields that are set.
type ProductUpdate struct {
	Name         *string
	CategoryID   *string
	PriceCents   *int
	Stock        *int
	TargetGender *string
	Material     *string
	Description  *string
}

type ProductFilter struct {
	Name       string
	CategoryID string
	Page       int
	Limit      int
}

func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
}

func (f ProductFilter) Offset() int { return (f.Page - 1) * f.Limit }
