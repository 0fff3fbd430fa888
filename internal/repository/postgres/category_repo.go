package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/widyatma/duit-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = "id, name, type, icon, color, user_id, created_at, updated_at"

// Create inserts a new user-owned category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	var owner pgtype.UUID
	if category.UserID != nil {
		owner = uuidToPg(*category.UserID)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, type, icon, color, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		category.Name, string(category.Type), category.Icon, category.Color, owner,
	)
	created, err := scanCategory(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(id int32) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`,
		id,
	)
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetVisible retrieves all default categories plus the user's own,
// optionally narrowed to one type. Defaults sort first.
func (r *CategoryRepository) GetVisible(userID uuid.UUID, typeFilter *domain.CategoryType) ([]*domain.Category, error) {
	ctx := context.Background()

	query := `SELECT ` + categoryColumns + `
		 FROM categories
		 WHERE (user_id IS NULL OR user_id = $1)`
	args := []any{uuidToPg(userID)}

	if typeFilter != nil {
		query += ` AND type = $2`
		args = append(args, string(*typeFilter))
	}
	query += ` ORDER BY user_id IS NOT NULL, type, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update replaces a category's name, type, icon, and color
func (r *CategoryRepository) Update(id int32, name string, categoryType domain.CategoryType, icon, color string) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`UPDATE categories
		 SET name = $2, type = $3, icon = $4, color = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+categoryColumns,
		id, name, string(categoryType), icon, color,
	)
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category. The transactions foreign key acts as a backstop
// against deleting a referenced category even if the in-use check races.
func (r *CategoryRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// CountTransactions counts transactions referencing the category
func (r *CategoryRepository) CountTransactions(categoryID int32) (int64, error) {
	ctx := context.Background()

	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = $1`,
		categoryID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category             domain.Category
		categoryType         string
		owner                pgtype.UUID
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&category.ID, &category.Name, &categoryType, &category.Icon, &category.Color, &owner, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	category.Type = domain.CategoryType(categoryType)
	if owner.Valid {
		ownerID := pgToUUID(owner)
		category.UserID = &ownerID
	}
	category.CreatedAt = createdAt.Time
	category.UpdatedAt = updatedAt.Time
	return &category, nil
}
