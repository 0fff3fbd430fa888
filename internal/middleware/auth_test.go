package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// stubValidator accepts a single known token
type stubValidator struct {
	token  string
	userID uuid.UUID
}

func (s *stubValidator) ValidateToken(token string) (uuid.UUID, error) {
	if token == s.token {
		return s.userID, nil
	}
	return uuid.Nil, errors.New("invalid token")
}

func runAuthMiddleware(t *testing.T, authHeader string, validator TokenValidator) (*httptest.ResponseRecorder, uuid.UUID, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var capturedID uuid.UUID
	handler := NewAuthMiddleware(validator).Authenticate()(func(c echo.Context) error {
		capturedID = GetUserID(c)
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	return rec, capturedID, err
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	validator := &stubValidator{token: "good-token", userID: userID}

	_, capturedID, err := runAuthMiddleware(t, "Bearer good-token", validator)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if capturedID != userID {
		t.Errorf("Expected user ID %s in context, got %s", userID, capturedID)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	_, _, err := runAuthMiddleware(t, "", &stubValidator{})

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}

	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	_, _, err := runAuthMiddleware(t, "Token abc", &stubValidator{})

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}

	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	validator := &stubValidator{token: "good-token", userID: uuid.New()}

	_, _, err := runAuthMiddleware(t, "Bearer bad-token", validator)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}

	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestGetUserID_Absent(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if GetUserID(c) != uuid.Nil {
		t.Error("Expected uuid.Nil when no user is in the context")
	}
}
