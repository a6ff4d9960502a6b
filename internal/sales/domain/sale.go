package domain

import "time"

// Sale is one completed checkout: who sold, for how much, paid how.
// Immutable once recorded.
type Sale struct {
	ID          int64
	UserID      int64
	UserName    string
	TotalPrice  float64
	PaymentType string
	CreatedAt   time.Time
}

// DailyTotal is one row of the daily revenue report.
type DailyTotal struct {
	Date  time.Time
	Total float64
}
