package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/websocket"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *TransactionService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
	}
}

// TransactionInput holds the input for creating or updating a transaction
type TransactionInput struct {
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Type        domain.TransactionType
	CategoryID  int32
}

// validate checks the input and resolves the referenced category.
// The transaction type must match the category's type.
func (s *TransactionService) validate(userID uuid.UUID, input TransactionInput) (string, *domain.Category, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return "", nil, domain.ErrInvalidAmount
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return "", nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return "", nil, domain.ErrDescriptionTooLong
	}

	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return "", nil, domain.ErrInvalidTransactionType
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return "", nil, domain.ErrCategoryNotFound
	}
	if !category.VisibleTo(userID) {
		return "", nil, domain.ErrCategoryNotFound
	}
	if string(category.Type) != string(input.Type) {
		return "", nil, domain.ErrCategoryTypeMismatch
	}

	return description, category, nil
}

// CreateTransaction creates a new transaction for the user
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	description, _, err := s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: description,
		Date:        input.Date,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionCreated(transaction))
	return transaction, nil
}

// GetTransactions retrieves a page of the user's transactions
func (s *TransactionService) GetTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves one of the user's transactions
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// UpdateTransaction replaces a transaction's details
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id int32, input TransactionInput) (*domain.Transaction, error) {
	description, _, err := s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	transaction, err := s.transactionRepo.Update(userID, id, &domain.UpdateTransactionData{
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: description,
		Date:        input.Date,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionUpdated(transaction))
	return transaction, nil
}

// DeleteTransaction removes one of the user's transactions
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int32) error {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(transaction))
	return nil
}
