package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/testutil"
	"github.com/widyatma/duit-backend/internal/websocket"
)

func newTransactionFixture() (*MockRepos, *TransactionService) {
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository(categoryRepo)
	transactionService := NewTransactionService(transactionRepo, categoryRepo, nil)
	return &MockRepos{Categories: categoryRepo, Transactions: transactionRepo}, transactionService
}

// MockRepos bundles the repositories behind a transaction service fixture
type MockRepos struct {
	Categories   *testutil.MockCategoryRepository
	Transactions *testutil.MockTransactionRepository
}

func TestCreateTransaction_Success(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	transaction, err := transactionService.CreateTransaction(userID, TransactionInput{
		Amount:      decimal.NewFromFloat(45.50),
		Description: "Lunch with team",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !transaction.Amount.Equal(decimal.NewFromFloat(45.50)) {
		t.Errorf("Expected amount 45.50, got %s", transaction.Amount.String())
	}

	if transaction.UserID != userID {
		t.Error("Expected transaction to belong to the creating user")
	}

	if transaction.Category == nil || transaction.Category.Name != "Food & Dining" {
		t.Error("Expected category summary to be attached")
	}
}

func TestCreateTransaction_ZeroAmount(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	_, err := transactionService.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.Zero,
		Description: "Free lunch",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransaction_NegativeAmount(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	_, err := transactionService.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.NewFromInt(-10),
		Description: "Refund",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransaction_EmptyDescription(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	_, err := transactionService.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.NewFromInt(10),
		Description: "   ",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if !errors.Is(err, domain.ErrDescriptionRequired) {
		t.Errorf("Expected ErrDescriptionRequired, got %v", err)
	}
}

func TestCreateTransaction_CategoryNotFound(t *testing.T) {
	_, transactionService := newTransactionFixture()

	_, err := transactionService.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.NewFromInt(10),
		Description: "Lunch",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  99,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateTransaction_OtherUsersCategory(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	otherID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Private", Type: domain.CategoryTypeExpense, Icon: "🔒", UserID: &otherID})

	_, err := transactionService.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.NewFromInt(10),
		Description: "Sneaky",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateTransaction_TypeMismatch(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Salary", Type: domain.CategoryTypeIncome, Icon: "💰"})

	_, err := transactionService.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.NewFromInt(100),
		Description: "Groceries",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if !errors.Is(err, domain.ErrCategoryTypeMismatch) {
		t.Errorf("Expected ErrCategoryTypeMismatch, got %v", err)
	}
}

func TestGetTransactions_FilterByType(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Salary", Type: domain.CategoryTypeIncome, Icon: "💰"})
	repos.Categories.AddCategory(&domain.Category{ID: 2, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	repos.Transactions.AddTransaction(&domain.Transaction{UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(1000), Type: domain.TransactionTypeIncome, Description: "Paycheck", Date: time.Now()})
	repos.Transactions.AddTransaction(&domain.Transaction{UserID: userID, CategoryID: 2, Amount: decimal.NewFromInt(50), Type: domain.TransactionTypeExpense, Description: "Dinner", Date: time.Now()})

	income := domain.TransactionTypeIncome
	result, err := transactionService.GetTransactions(userID, &domain.TransactionFilters{Type: &income, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Total != 1 {
		t.Fatalf("Expected 1 matching transaction, got %d", result.Total)
	}

	if result.Data[0].Description != "Paycheck" {
		t.Errorf("Expected 'Paycheck', got %s", result.Data[0].Description)
	}
}

func TestGetTransactions_DateRangeInclusive(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	for i, date := range []time.Time{jan1, jan15, jan31, feb1} {
		repos.Transactions.AddTransaction(&domain.Transaction{
			UserID:      userID,
			CategoryID:  1,
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Type:        domain.TransactionTypeExpense,
			Description: "Meal",
			Date:        date,
		})
	}

	result, err := transactionService.GetTransactions(userID, &domain.TransactionFilters{
		StartDate: &jan1,
		EndDate:   &jan31,
		Page:      1,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Total != 3 {
		t.Errorf("Expected both boundary dates included (3 rows), got %d", result.Total)
	}
}

func TestGetTransactions_PaginationWindow(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		repos.Transactions.AddTransaction(&domain.Transaction{
			UserID:      userID,
			CategoryID:  1,
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Type:        domain.TransactionTypeExpense,
			Description: "Meal",
			Date:        base.AddDate(0, 0, i),
		})
	}

	result, err := transactionService.GetTransactions(userID, &domain.TransactionFilters{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Total != 25 {
		t.Errorf("Expected total 25, got %d", result.Total)
	}

	if result.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", result.TotalPages)
	}

	if len(result.Data) != 5 {
		t.Errorf("Expected 5 rows on the last page, got %d", len(result.Data))
	}
}

func TestGetTransactions_PageBeyondEnd(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Transactions.AddTransaction(&domain.Transaction{UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(5), Type: domain.TransactionTypeExpense, Description: "Meal", Date: time.Now()})

	result, err := transactionService.GetTransactions(userID, &domain.TransactionFilters{Page: 9, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Data) != 0 {
		t.Errorf("Expected empty page, got %d rows", len(result.Data))
	}

	if result.Total != 1 {
		t.Errorf("Expected total to stay 1, got %d", result.Total)
	}
}

func TestGetTransactions_NewestFirst(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	repos.Transactions.AddTransaction(&domain.Transaction{UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeExpense, Description: "Old", Date: old})
	repos.Transactions.AddTransaction(&domain.Transaction{UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(2), Type: domain.TransactionTypeExpense, Description: "Recent", Date: recent})

	result, err := transactionService.GetTransactions(userID, &domain.TransactionFilters{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Data[0].Description != "Recent" {
		t.Errorf("Expected newest transaction first, got %s", result.Data[0].Description)
	}
}

func TestGetTransactionByID_OtherUsersTransaction(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	ownerID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Transactions.AddTransaction(&domain.Transaction{ID: 1, UserID: ownerID, CategoryID: 1, Amount: decimal.NewFromInt(5), Type: domain.TransactionTypeExpense, Description: "Meal", Date: time.Now()})

	_, err := transactionService.GetTransactionByID(uuid.New(), 1)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUpdateTransaction_Success(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Categories.AddCategory(&domain.Category{ID: 2, Name: "Transportation", Type: domain.CategoryTypeExpense, Icon: "🚗"})
	repos.Transactions.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense, Description: "Lunch", Date: time.Now()})

	updated, err := transactionService.UpdateTransaction(userID, 1, TransactionInput{
		Amount:      decimal.NewFromInt(30),
		Description: "Taxi home",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  2,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.CategoryID != 2 {
		t.Errorf("Expected category 2, got %d", updated.CategoryID)
	}

	if updated.Description != "Taxi home" {
		t.Errorf("Expected description 'Taxi home', got %s", updated.Description)
	}
}

func TestUpdateTransaction_TypeMismatch(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Transactions.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense, Description: "Lunch", Date: time.Now()})

	_, err := transactionService.UpdateTransaction(userID, 1, TransactionInput{
		Amount:      decimal.NewFromInt(10),
		Description: "Lunch",
		Date:        time.Now(),
		Type:        domain.TransactionTypeIncome,
		CategoryID:  1,
	})
	if !errors.Is(err, domain.ErrCategoryTypeMismatch) {
		t.Errorf("Expected ErrCategoryTypeMismatch, got %v", err)
	}
}

func TestDeleteTransaction_Success(t *testing.T) {
	repos, transactionService := newTransactionFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Transactions.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense, Description: "Lunch", Date: time.Now()})

	if err := transactionService.DeleteTransaction(userID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := transactionService.GetTransactionByID(userID, 1); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected transaction to be gone, got %v", err)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	_, transactionService := newTransactionFixture()

	err := transactionService.DeleteTransaction(uuid.New(), 42)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func newTransactionEventFixture() (*MockRepos, *testutil.MockEventPublisher, *TransactionService) {
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository(categoryRepo)
	publisher := testutil.NewMockEventPublisher()
	transactionService := NewTransactionService(transactionRepo, categoryRepo, publisher)
	return &MockRepos{Categories: categoryRepo, Transactions: transactionRepo}, publisher, transactionService
}

func TestCreateTransaction_PublishesEvent(t *testing.T) {
	repos, publisher, transactionService := newTransactionEventFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	transaction, err := transactionService.CreateTransaction(userID, TransactionInput{
		Amount:      decimal.NewFromInt(10),
		Description: "Lunch",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(publisher.Events))
	}

	published := publisher.Last()
	if published.UserID != userID {
		t.Errorf("Expected event for user %s, got %s", userID, published.UserID)
	}
	if published.Event.Type != "transaction.created" {
		t.Errorf("Expected event type 'transaction.created', got %s", published.Event.Type)
	}
	if published.Event.Entity != websocket.EntityTypeTransaction {
		t.Errorf("Expected entity 'transaction', got %s", published.Event.Entity)
	}
	if payload, ok := published.Event.Payload.(*domain.Transaction); !ok || payload.ID != transaction.ID {
		t.Error("Expected the created transaction as the event payload")
	}
}

func TestUpdateTransaction_PublishesEvent(t *testing.T) {
	repos, publisher, transactionService := newTransactionEventFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Transactions.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense, Description: "Lunch", Date: time.Now()})

	if _, err := transactionService.UpdateTransaction(userID, 1, TransactionInput{
		Amount:      decimal.NewFromInt(12),
		Description: "Team lunch",
		Date:        time.Now(),
		Type:        domain.TransactionTypeExpense,
		CategoryID:  1,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(publisher.Events))
	}
	if publisher.Last().Event.Type != "transaction.updated" {
		t.Errorf("Expected event type 'transaction.updated', got %s", publisher.Last().Event.Type)
	}
}

func TestDeleteTransaction_PublishesEvent(t *testing.T) {
	repos, publisher, transactionService := newTransactionEventFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})
	repos.Transactions.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense, Description: "Lunch", Date: time.Now()})

	if err := transactionService.DeleteTransaction(userID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(publisher.Events))
	}

	published := publisher.Last()
	if published.Event.Type != "transaction.deleted" {
		t.Errorf("Expected event type 'transaction.deleted', got %s", published.Event.Type)
	}
	if payload, ok := published.Event.Payload.(*domain.Transaction); !ok || payload.ID != 1 {
		t.Error("Expected the deleted transaction as the event payload")
	}
}

func TestTransactionEvents_NotPublishedOnFailure(t *testing.T) {
	repos, publisher, transactionService := newTransactionEventFixture()

	userID := uuid.New()
	repos.Categories.AddCategory(&domain.Category{ID: 1, Name: "Food & Dining", Type: domain.CategoryTypeExpense, Icon: "🍔"})

	if _, err := transactionService.CreateTransaction(userID, TransactionInput{
		Amount:      decimal.NewFromInt(10),
		Description: "Paycheck",
		Date:        time.Now(),
		Type:        domain.TransactionTypeIncome,
		CategoryID:  1,
	}); !errors.Is(err, domain.ErrCategoryTypeMismatch) {
		t.Fatalf("Expected ErrCategoryTypeMismatch, got %v", err)
	}

	if err := transactionService.DeleteTransaction(userID, 42); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("Expected ErrTransactionNotFound, got %v", err)
	}

	if len(publisher.Events) != 0 {
		t.Errorf("Expected no events for failed writes, got %d", len(publisher.Events))
	}
}
