package domain

import "time"

type Variant struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Product struct {
	ID         int64
	Name       string
	Price      float64
	ImageURL   string
	CategoryID *int64
	// Category is the category's display name when the row was joined.
	Category  string
	Variants  []Variant
	CreatedAt time.Time
}

type Category struct {
	ID   int64
	Name string
}
