package domain

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category groups transactions under a name and icon. A nil UserID marks a
// seeded default category: visible to everyone, owned by no one, immutable.
type Category struct {
	ID        int32        `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	UserID    *uuid.UUID   `json:"user_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IsDefault reports whether the category is a seeded default.
func (c *Category) IsDefault() bool {
	return c.UserID == nil
}

// VisibleTo reports whether userID may reference the category on transactions.
func (c *Category) VisibleTo(userID uuid.UUID) bool {
	return c.UserID == nil || *c.UserID == userID
}

// OwnedBy reports whether userID may modify or delete the category.
func (c *Category) OwnedBy(userID uuid.UUID) bool {
	return c.UserID != nil && *c.UserID == userID
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id int32) (*Category, error)
	GetVisible(userID uuid.UUID, typeFilter *CategoryType) ([]*Category, error)
	Update(id int32, name string, categoryType CategoryType, icon, color string) (*Category, error)
	Delete(id int32) error
	CountTransactions(categoryID int32) (int64, error)
}
