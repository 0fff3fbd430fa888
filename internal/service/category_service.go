package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/widyatma/duit-backend/internal/domain"
	"github.com/widyatma/duit-backend/internal/websocket"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *CategoryService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// CategoryInput holds the input for creating or updating a category
type CategoryInput struct {
	Name  string
	Type  domain.CategoryType
	Icon  string
	Color string
}

func (in *CategoryInput) validate() (string, string, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", "", "", domain.ErrNameTooLong
	}
	if in.Type != domain.CategoryTypeIncome && in.Type != domain.CategoryTypeExpense {
		return "", "", "", domain.ErrInvalidCategoryType
	}
	icon := strings.TrimSpace(in.Icon)
	if icon == "" || len(icon) > domain.MaxIconLength {
		return "", "", "", domain.ErrIconRequired
	}
	color := strings.TrimSpace(in.Color)
	if len(color) > domain.MaxColorLength {
		return "", "", "", domain.ErrInvalidColor
	}
	return name, icon, color, nil
}

// CreateCategory creates a new category owned by the user
func (s *CategoryService) CreateCategory(userID uuid.UUID, input CategoryInput) (*domain.Category, error) {
	name, icon, color, err := input.validate()
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		Name:   name,
		Type:   input.Type,
		Icon:   icon,
		Color:  color,
		UserID: &userID,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryCreated(category))
	return category, nil
}

// GetCategories retrieves all default categories plus the user's own,
// optionally filtered to one type
func (s *CategoryService) GetCategories(userID uuid.UUID, typeFilter *domain.CategoryType) ([]*domain.Category, error) {
	if typeFilter != nil && *typeFilter != domain.CategoryTypeIncome && *typeFilter != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}
	return s.categoryRepo.GetVisible(userID, typeFilter)
}

// GetCategoryByID retrieves one category visible to the user
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !category.VisibleTo(userID) {
		// Another user's category looks like it does not exist
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// UpdateCategory updates a category owned by the user.
// Default categories reject updates, and the type cannot change
// while transactions still reference the category.
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id int32, input CategoryInput) (*domain.Category, error) {
	name, icon, color, err := input.validate()
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		return nil, domain.ErrCategoryImmutable
	}
	if !category.OwnedBy(userID) {
		return nil, domain.ErrCategoryNotFound
	}

	if input.Type != category.Type {
		count, err := s.categoryRepo.CountTransactions(id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.ErrCategoryInUse
		}
	}

	updated, err := s.categoryRepo.Update(id, name, input.Type, icon, color)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryUpdated(updated))
	return updated, nil
}

// DeleteCategory deletes a category owned by the user.
// Deletion is rejected while any transaction references the category.
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category.IsDefault() {
		return domain.ErrCategoryImmutable
	}
	if !category.OwnedBy(userID) {
		return domain.ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountTransactions(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.CategoryDeleted(category))
	return nil
}
