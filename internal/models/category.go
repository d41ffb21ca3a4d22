package models

// Category groups transactions for breakdowns
type Category struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// CategoryShare is one row of a category breakdown
type CategoryShare struct {
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}
