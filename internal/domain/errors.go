package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyUsed    = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrIconRequired        = errors.New("icon is required")
	ErrInvalidColor        = errors.New("invalid color")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrCategoryImmutable   = errors.New("default categories cannot be modified")
	ErrCategoryInUse       = errors.New("category is referenced by transactions")

	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrCategoryTypeMismatch   = errors.New("transaction type does not match category type")
)

// Validation constants
const (
	MaxCategoryNameLength = 100
	MaxIconLength         = 16
	MaxColorLength        = 7
	MaxDescriptionLength  = 255
	MinPasswordLength     = 8
)
