package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create stores a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailAlreadyUsed
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories        map[int32]*domain.Category
	TransactionCounts map[int32]int64
	NextID            int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories:        make(map[int32]*domain.Category),
		TransactionCounts: make(map[int32]int64),
		NextID:            1,
	}
}

// Create stores a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	for _, existing := range m.Categories {
		if existing.Name == category.Name && existing.Type == category.Type && sameOwner(existing.UserID, category.UserID) {
			return nil, domain.ErrCategoryExists
		}
	}
	category.ID = m.NextID
	m.NextID++
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetVisible returns default categories plus the user's own
func (m *MockCategoryRepository) GetVisible(userID uuid.UUID, typeFilter *domain.CategoryType) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, category := range m.Categories {
		if !category.VisibleTo(userID) {
			continue
		}
		if typeFilter != nil && category.Type != *typeFilter {
			continue
		}
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDefault() != result[j].IsDefault() {
			return result[i].IsDefault()
		}
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Update replaces a category's mutable fields
func (m *MockCategoryRepository) Update(id int32, name string, categoryType domain.CategoryType, icon, color string) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	category.Name = name
	category.Type = categoryType
	category.Icon = icon
	category.Color = color
	category.UpdatedAt = time.Now()
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(id int32) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	if m.TransactionCounts[id] > 0 {
		return domain.ErrCategoryInUse
	}
	delete(m.Categories, id)
	return nil
}

// CountTransactions returns the number of transactions referencing a category
func (m *MockCategoryRepository) CountTransactions(categoryID int32) (int64, error) {
	return m.TransactionCounts[categoryID], nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == 0 {
		category.ID = m.NextID
	}
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
	m.Categories[category.ID] = category
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	Categories   *MockCategoryRepository
	NextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository.
// When categories is non-nil, reads join in the category summary.
func NewMockTransactionRepository(categories *MockCategoryRepository) *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		Categories:   categories,
		NextID:       1,
	}
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = m.NextID
	m.NextID++
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	m.attachCategory(transaction)
	m.Transactions[transaction.ID] = transaction
	if m.Categories != nil {
		m.Categories.TransactionCounts[transaction.CategoryID]++
	}
	return transaction, nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// GetByUser returns the user's transactions, filtered and paginated
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if filters.Type != nil && transaction.Type != *filters.Type {
			continue
		}
		if filters.CategoryID != nil && transaction.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.StartDate != nil && transaction.Date.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && transaction.Date.After(*filters.EndDate) {
			continue
		}
		matched = append(matched, transaction)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	total := int64(len(matched))
	totalPages := int32((total + int64(limit) - 1) / int64(limit))

	start := int((page - 1) * limit)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(limit)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Update replaces a transaction's fields
func (m *MockTransactionRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	if m.Categories != nil && transaction.CategoryID != data.CategoryID {
		m.Categories.TransactionCounts[transaction.CategoryID]--
		m.Categories.TransactionCounts[data.CategoryID]++
	}
	transaction.CategoryID = data.CategoryID
	transaction.Amount = data.Amount
	transaction.Type = data.Type
	transaction.Description = data.Description
	transaction.Date = data.Date
	transaction.UpdatedAt = time.Now()
	m.attachCategory(transaction)
	return transaction, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int32) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	if m.Categories != nil {
		m.Categories.TransactionCounts[transaction.CategoryID]--
	}
	return nil
}

// SumByType sums the user's transaction amounts of one type
func (m *MockTransactionRepository) SumByType(userID uuid.UUID, transactionType domain.TransactionType) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID && transaction.Type == transactionType {
			sum = sum.Add(transaction.Amount)
		}
	}
	return sum, nil
}

// CountByUser counts all of the user's transactions
func (m *MockTransactionRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID {
			count++
		}
	}
	return count, nil
}

// GetCategoryTotals aggregates the user's transactions per category
func (m *MockTransactionRepository) GetCategoryTotals(userID uuid.UUID) ([]*domain.CategoryTotal, error) {
	buckets := make(map[int32]*domain.CategoryTotal)
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		bucket, ok := buckets[transaction.CategoryID]
		if !ok {
			bucket = &domain.CategoryTotal{
				CategoryID: transaction.CategoryID,
				Type:       transaction.Type,
				Total:      decimal.Zero,
			}
			if transaction.Category != nil {
				bucket.CategoryName = transaction.Category.Name
				bucket.CategoryIcon = transaction.Category.Icon
			}
			buckets[transaction.CategoryID] = bucket
		}
		bucket.Total = bucket.Total.Add(transaction.Amount)
		bucket.Count++
	}

	result := make([]*domain.CategoryTotal, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result, nil
}

// GetRecent returns the user's most recent transactions
func (m *MockTransactionRepository) GetRecent(userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	result, err := m.GetByUser(userID, &domain.TransactionFilters{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
	}
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.attachCategory(transaction)
	m.Transactions[transaction.ID] = transaction
	if m.Categories != nil {
		m.Categories.TransactionCounts[transaction.CategoryID]++
	}
}

// PublishedEvent records one Publish call on a MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher is a mock implementation of websocket.EventPublisher
// that records every published event in order
type MockEventPublisher struct {
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Last returns the most recently published event, or nil when none were published
func (m *MockEventPublisher) Last() *PublishedEvent {
	if len(m.Events) == 0 {
		return nil
	}
	return &m.Events[len(m.Events)-1]
}

func (m *MockTransactionRepository) attachCategory(transaction *domain.Transaction) {
	if m.Categories == nil {
		return
	}
	if category, ok := m.Categories.Categories[transaction.CategoryID]; ok {
		transaction.Category = &domain.CategoryRef{
			ID:    category.ID,
			Name:  category.Name,
			Icon:  category.Icon,
			Color: category.Color,
			Type:  category.Type,
		}
	}
}
