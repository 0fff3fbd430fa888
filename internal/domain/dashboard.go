package domain

import "github.com/shopspring/decimal"

// CategoryBreakdown is one dashboard entry per category with at least one
// transaction. Percentage is the category's share of its own type's total.
type CategoryBreakdown struct {
	CategoryID   int32           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CategoryIcon string          `json:"category_icon"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Count        int64           `json:"count"`
	Percentage   float64         `json:"percentage"`
}

// DashboardStats is the derived, read-only aggregate over a user's transactions.
type DashboardStats struct {
	TotalIncome        decimal.Decimal     `json:"total_income"`
	TotalExpense       decimal.Decimal     `json:"total_expense"`
	Balance            decimal.Decimal     `json:"balance"`
	TransactionCount   int64               `json:"transaction_count"`
	CategoryBreakdown  []CategoryBreakdown `json:"category_breakdown"`
	RecentTransactions []*Transaction      `json:"recent_transactions"`
}

// RecentTransactionsLimit caps the dashboard's recent transaction list.
const RecentTransactionsLimit = 5
