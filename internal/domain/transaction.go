package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// CategoryRef is the category summary embedded in transaction reads.
type CategoryRef struct {
	ID    int32        `json:"id"`
	Name  string       `json:"name"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
	Type  CategoryType `json:"type"`
}

type Transaction struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	CategoryID  int32           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    *CategoryRef    `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionFilters narrows a listing. Nil fields impose no constraint;
// the date range is inclusive on both ends.
type TransactionFilters struct {
	Type       *TransactionType
	CategoryID *int32
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int32
	Limit      int32
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction
	Page       int32
	Limit      int32
	Total      int64
	TotalPages int32
}

// UpdateTransactionData carries the full replacement state for an update.
type UpdateTransactionData struct {
	CategoryID  int32
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
	Date        time.Time
}

// CategoryTotal is one aggregation bucket of a user's transactions by category.
type CategoryTotal struct {
	CategoryID   int32
	CategoryName string
	CategoryIcon string
	Type         TransactionType
	Total        decimal.Decimal
	Count        int64
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id int32) (*Transaction, error)
	GetByUser(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	Update(userID uuid.UUID, id int32, data *UpdateTransactionData) (*Transaction, error)
	Delete(userID uuid.UUID, id int32) error

	SumByType(userID uuid.UUID, transactionType TransactionType) (decimal.Decimal, error)
	CountByUser(userID uuid.UUID) (int64, error)
	GetCategoryTotals(userID uuid.UUID) ([]*CategoryTotal, error)
	GetRecent(userID uuid.UUID, limit int32) ([]*Transaction, error)
}
