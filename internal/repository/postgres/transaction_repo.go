package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/widyatma/duit-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `t.id, t.user_id, t.category_id, t.amount, t.type, t.description, t.date,
	t.created_at, t.updated_at, c.name, c.icon, c.color, c.type`

const transactionFrom = ` FROM transactions t JOIN categories c ON c.id = t.category_id`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id int32
	err = r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, type, description, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		uuidToPg(transaction.UserID), transaction.CategoryID, amount,
		string(transaction.Type), transaction.Description, transaction.Date,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(transaction.UserID, id)
}

// GetByID retrieves a transaction owned by the user, with its category resolved
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+transactionFrom+` WHERE t.user_id = $1 AND t.id = $2`,
		uuidToPg(userID), id,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByUser retrieves a page of the user's transactions, newest first.
// Filter predicates compose with AND; the date range is inclusive.
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	page := int32(1)
	limit := int32(domain.DefaultPageLimit)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.Limit > 0 {
			limit = filters.Limit
			if limit > domain.MaxPageLimit {
				limit = domain.MaxPageLimit
			}
		}
	}
	offset := (page - 1) * limit

	where := []string{"t.user_id = $1"}
	args := []any{uuidToPg(userID)}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			where = append(where, fmt.Sprintf("t.type = $%d", len(args)))
		}
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			where = append(where, fmt.Sprintf("t.category_id = $%d", len(args)))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			where = append(where, fmt.Sprintf("t.date >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			where = append(where, fmt.Sprintf("t.date <= $%d", len(args)))
		}
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+transactionFrom+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, err
	}

	args = append(args, limit, offset)
	query := `SELECT ` + transactionColumns + transactionFrom + whereClause +
		fmt.Sprintf(` ORDER BY t.date DESC, t.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32(total / int64(limit))
	if total%int64(limit) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Update replaces a transaction's details
func (r *TransactionRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions
		 SET category_id = $3, amount = $4, type = $5, description = $6, date = $7, updated_at = now()
		 WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), id, data.CategoryID, amount,
		string(data.Type), data.Description, data.Date,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	return r.GetByID(userID, id)
}

// Delete removes a transaction owned by the user
func (r *TransactionRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumByType sums amounts of the user's transactions of one type
func (r *TransactionRepository) SumByType(userID uuid.UUID, transactionType domain.TransactionType) (decimal.Decimal, error) {
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND type = $2`,
		uuidToPg(userID), string(transactionType),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// CountByUser counts all of the user's transactions
func (r *TransactionRepository) CountByUser(userID uuid.UUID) (int64, error) {
	ctx := context.Background()

	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`,
		uuidToPg(userID),
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetCategoryTotals aggregates the user's transactions per category,
// largest total first
func (r *TransactionRepository) GetCategoryTotals(userID uuid.UUID) ([]*domain.CategoryTotal, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT t.category_id, c.name, c.icon, t.type, SUM(t.amount), COUNT(*)`+
			transactionFrom+`
		 WHERE t.user_id = $1
		 GROUP BY t.category_id, c.name, c.icon, t.type
		 ORDER BY SUM(t.amount) DESC`,
		uuidToPg(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.CategoryTotal
	for rows.Next() {
		var (
			bucket          domain.CategoryTotal
			transactionType string
			total           pgtype.Numeric
		)
		if err := rows.Scan(&bucket.CategoryID, &bucket.CategoryName, &bucket.CategoryIcon, &transactionType, &total, &bucket.Count); err != nil {
			return nil, err
		}
		bucket.Type = domain.TransactionType(transactionType)
		bucket.Total = pgNumericToDecimal(total)
		totals = append(totals, &bucket)
	}
	return totals, rows.Err()
}

// GetRecent retrieves the user's most recently dated transactions
func (r *TransactionRepository) GetRecent(userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+transactionFrom+`
		 WHERE t.user_id = $1
		 ORDER BY t.date DESC, t.id DESC
		 LIMIT $2`,
		uuidToPg(userID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction                                             domain.Transaction
		owner                                                   pgtype.UUID
		amount                                                  pgtype.Numeric
		transactionType                                         string
		date, createdAt, updatedAt                              pgtype.Timestamptz
		categoryName, categoryIcon, categoryColor, categoryType string
	)
	if err := row.Scan(
		&transaction.ID, &owner, &transaction.CategoryID, &amount, &transactionType,
		&transaction.Description, &date, &createdAt, &updatedAt,
		&categoryName, &categoryIcon, &categoryColor, &categoryType,
	); err != nil {
		return nil, err
	}
	transaction.UserID = pgToUUID(owner)
	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Type = domain.TransactionType(transactionType)
	transaction.Date = date.Time
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time
	transaction.Category = &domain.CategoryRef{
		ID:    transaction.CategoryID,
		Name:  categoryName,
		Icon:  categoryIcon,
		Color: categoryColor,
		Type:  domain.CategoryType(categoryType),
	}
	return &transaction, nil
}
