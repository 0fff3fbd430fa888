package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/middleware"
	"github.com/widyatma/duit-backend/internal/service"
)

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

type transactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	CategoryID  int32           `json:"category_id"`
}

type transactionResponse struct {
	ID          int32               `json:"id"`
	Amount      string              `json:"amount"`
	Description string              `json:"description"`
	Date        string              `json:"date"`
	Type        string              `json:"type"`
	CategoryID  int32               `json:"category_id"`
	Category    *domain.CategoryRef `json:"category,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

type paginationResponse struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int32 `json:"totalPages"`
}

type transactionListResponse struct {
	Data       []transactionResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponses(transactions []*domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

// GetTransactions godoc
// @Summary List transactions
// @Description Get the user's transactions, filtered and paginated, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type (income or expense)"
// @Param category_id query int false "Filter by category ID"
// @Param start_date query string false "Start date (YYYY-MM-DD), inclusive"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page, capped at 100" default(10)
// @Success 200 {object} transactionListResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	result, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch transactions")
		return NewInternalError(c, "Failed to fetch transactions")
	}

	return c.JSON(http.StatusOK, transactionListResponse{
		Data: toTransactionResponses(result.Data),
		Pagination: paginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

// GetTransaction godoc
// @Summary Get a transaction
// @Description Get one of the user's transactions by ID
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} transactionResponse
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to fetch transaction")
		return NewInternalError(c, "Failed to fetch transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record a new income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body transactionRequest true "Transaction creation request"
// @Success 201 {object} transactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	input, err := h.bindInput(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if handled := transactionDomainError(c, err); handled != nil {
			return handled
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Replace a transaction's amount, description, date, type, and category
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body transactionRequest true "Transaction update request"
// @Success 200 {object} transactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	input, err := h.bindInput(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if handled := transactionDomainError(c, err); handled != nil {
			return handled
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Permanently remove one of the user's transactions
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TransactionHandler) bindInput(c echo.Context) (service.TransactionInput, error) {
	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return service.TransactionInput{}, errors.New("Invalid request body")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return service.TransactionInput{}, errors.New("Date must be in YYYY-MM-DD format")
	}

	return service.TransactionInput{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		Type:        domain.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
	}, nil
}

func transactionDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Category not found", nil)
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Amount must be greater than zero", nil)
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Description is required", nil)
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Description is too long", nil)
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Transaction type must be 'income' or 'expense'", nil)
	case errors.Is(err, domain.ErrCategoryTypeMismatch):
		return NewValidationError(c, "Transaction type does not match category type", nil)
	default:
		return nil
	}
}

func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{
		Page:  1,
		Limit: domain.DefaultPageLimit,
	}

	if t := c.QueryParam("type"); t != "" {
		tt := domain.TransactionType(t)
		if tt != domain.TransactionTypeIncome && tt != domain.TransactionTypeExpense {
			return nil, errors.New("Transaction type must be 'income' or 'expense'")
		}
		filters.Type = &tt
	}

	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || id < 1 {
			return nil, errors.New("Invalid category_id")
		}
		categoryID := int32(id)
		filters.CategoryID = &categoryID
	}

	if raw := c.QueryParam("start_date"); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errors.New("start_date must be in YYYY-MM-DD format")
		}
		filters.StartDate = &start
	}

	if raw := c.QueryParam("end_date"); raw != "" {
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errors.New("end_date must be in YYYY-MM-DD format")
		}
		filters.EndDate = &end
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, errors.New("end_date must not be before start_date")
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || page < 1 {
			return nil, errors.New("Invalid page")
		}
		filters.Page = int32(page)
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 1 {
			return nil, errors.New("Invalid limit")
		}
		if limit > domain.MaxPageLimit {
			limit = domain.MaxPageLimit
		}
		filters.Limit = int32(limit)
	}

	return filters, nil
}
