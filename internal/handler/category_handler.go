package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/middleware"
	"github.com/widyatma/duit-backend/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// GetCategories godoc
// @Summary List categories
// @Description Get the default categories plus the user's own, optionally filtered by type
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "Category type (income or expense)"
// @Success 200 {array} domain.Category
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var typeFilter *domain.CategoryType
	if t := c.QueryParam("type"); t != "" {
		ct := domain.CategoryType(t)
		typeFilter = &ct
	}

	categories, err := h.categoryService.GetCategories(userID, typeFilter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategoryType) {
			return NewValidationError(c, "Category type must be 'income' or 'expense'", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch categories")
		return NewInternalError(c, "Failed to fetch categories")
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Description Get a single category visible to the user
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.GetCategoryByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to fetch category")
		return NewInternalError(c, "Failed to fetch category")
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Description Create a custom category owned by the user
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body categoryRequest true "Category creation request"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(userID, service.CategoryInput{
		Name:  req.Name,
		Type:  domain.CategoryType(req.Type),
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		if handled := categoryValidationError(c, err); handled != nil {
			return handled
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Description Update a user-owned category; default categories are immutable
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body categoryRequest true "Category update request"
// @Success 200 {object} domain.Category
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(userID, id, service.CategoryInput{
		Name:  req.Name,
		Type:  domain.CategoryType(req.Type),
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		case errors.Is(err, domain.ErrCategoryImmutable):
			return NewForbiddenError(c, "Default categories cannot be modified")
		case errors.Is(err, domain.ErrCategoryInUse):
			return NewConflictError(c, "Category type cannot change while transactions reference it")
		default:
			if handled := categoryValidationError(c, err); handled != nil {
				return handled
			}
			log.Error().Err(err).Int32("category_id", id).Msg("Failed to update category")
			return NewInternalError(c, "Failed to update category")
		}
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Delete a user-owned category that has no transactions
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(userID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		case errors.Is(err, domain.ErrCategoryImmutable):
			return NewForbiddenError(c, "Default categories cannot be deleted")
		case errors.Is(err, domain.ErrCategoryInUse):
			return NewConflictError(c, "Category has transactions and cannot be deleted")
		default:
			log.Error().Err(err).Int32("category_id", id).Msg("Failed to delete category")
			return NewInternalError(c, "Failed to delete category")
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func categoryValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Category name is required", nil)
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Category name is too long", nil)
	case errors.Is(err, domain.ErrIconRequired):
		return NewValidationError(c, "Category icon is required", nil)
	case errors.Is(err, domain.ErrInvalidColor):
		return NewValidationError(c, "Category color is too long", nil)
	case errors.Is(err, domain.ErrInvalidCategoryType):
		return NewValidationError(c, "Category type must be 'income' or 'expense'", nil)
	case errors.Is(err, domain.ErrCategoryExists):
		return NewConflictError(c, "A category with this name and type already exists")
	default:
		return nil
	}
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}
