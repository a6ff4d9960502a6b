package client

import "time"

// Wire types for the POS backend. Every payload is a tagged record validated
// at the boundary; a response missing a required field fails with
// *MalformedResponseError instead of silently defaulting.

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Variant struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CategoryID *int64    `json:"categoryId"`
	Category   string    `json:"category,omitempty"`
	Variants   []Variant `json:"variants"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SaleUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Sale struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	User        *SaleUser `json:"user,omitempty"`
	TotalPrice  float64   `json:"totalPrice"`
	PaymentType string    `json:"paymentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SaleRequest struct {
	UserID      int64   `json:"userId"`
	TotalPrice  float64 `json:"totalPrice"`
	PaymentType string  `json:"paymentType"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type CreateProductRequest struct {
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CategoryID *int64    `json:"categoryId,omitempty"`
	Variants   []Variant `json:"variants"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// DailyRevenue is one row of the daily report: sales of one calendar date.
type DailyRevenue struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// RevenueTotal is the weekly/monthly report shape: a single rolling sum.
type RevenueTotal struct {
	Total float64 `json:"total"`
}

func validateUser(u *User) error {
	if u.ID == 0 {
		return &MalformedResponseError{Field: "id", Reason: "user id missing"}
	}
	if u.Name == "" {
		return &MalformedResponseError{Field: "name", Reason: "user name missing"}
	}
	return nil
}

func validateProduct(p *Product) error {
	if p.Name == "" {
		return &MalformedResponseError{Field: "name", Reason: "product name missing"}
	}
	if p.Price < 0 {
		return &MalformedResponseError{Field: "price", Reason: "negative product price"}
	}
	for _, v := range p.Variants {
		if v.Name == "" {
			return &MalformedResponseError{Field: "variants.name", Reason: "variant name missing"}
		}
		if v.Price < 0 {
			return &MalformedResponseError{Field: "variants.price", Reason: "negative variant price"}
		}
	}
	return nil
}

func validateSale(s *Sale) error {
	if s.ID == 0 {
		return &MalformedResponseError{Field: "id", Reason: "sale id missing"}
	}
	if s.UserID == 0 {
		return &MalformedResponseError{Field: "userId", Reason: "sale user id missing"}
	}
	if s.PaymentType == "" {
		return &MalformedResponseError{Field: "paymentType", Reason: "payment type missing"}
	}
	return nil
}

func validateCategory(c *Category) error {
	if c.ID == 0 {
		return &MalformedResponseError{Field: "id", Reason: "category id missing"}
	}
	if c.Name == "" {
		return &MalformedResponseError{Field: "name", Reason: "category name missing"}
	}
	return nil
}
