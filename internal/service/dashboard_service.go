package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/widyatma/duit-backend/internal/domain"
)

// DashboardService computes the aggregate dashboard snapshot
type DashboardService struct {
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{transactionRepo: transactionRepo}
}

var oneHundred = decimal.NewFromInt(100)

// GetStats builds the dashboard snapshot for a user: income/expense totals,
// balance, transaction count, a per-category breakdown, and the most recent
// transactions. Read-only.
func (s *DashboardService) GetStats(userID uuid.UUID) (*domain.DashboardStats, error) {
	totalIncome, err := s.transactionRepo.SumByType(userID, domain.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}

	totalExpense, err := s.transactionRepo.SumByType(userID, domain.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	count, err := s.transactionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.transactionRepo.GetCategoryTotals(userID)
	if err != nil {
		return nil, err
	}

	breakdown := make([]domain.CategoryBreakdown, len(totals))
	for i, bucket := range totals {
		// Percentage is the category's share of its own type's total;
		// zero when that total is zero.
		basis := totalExpense
		if bucket.Type == domain.TransactionTypeIncome {
			basis = totalIncome
		}
		percentage := 0.0
		if basis.IsPositive() {
			percentage = bucket.Total.Div(basis).Mul(oneHundred).Round(2).InexactFloat64()
		}

		breakdown[i] = domain.CategoryBreakdown{
			CategoryID:   bucket.CategoryID,
			CategoryName: bucket.CategoryName,
			CategoryIcon: bucket.CategoryIcon,
			TotalAmount:  bucket.Total,
			Count:        bucket.Count,
			Percentage:   percentage,
		}
	}

	recent, err := s.transactionRepo.GetRecent(userID, domain.RecentTransactionsLimit)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Balance:            totalIncome.Sub(totalExpense),
		TransactionCount:   count,
		CategoryBreakdown:  breakdown,
		RecentTransactions: recent,
	}, nil
}
