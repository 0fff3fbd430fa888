package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/widyatma/duit-backend/internal/middleware"
	"github.com/widyatma/duit-backend/internal/service"
	"github.com/widyatma/duit-backend/internal/testutil"
)

const testJWTSecret = "test-secret"

func newAuthHandlerFixture() (*service.AuthService, *AuthHandler) {
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo, testJWTSecret)
	return authService, NewAuthHandler(authService)
}

func TestRegisterHandler_Success(t *testing.T) {
	e := echo.New()
	_, handler := newAuthHandlerFixture()

	reqBody := `{"name": "Widya", "email": "widya@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Token == "" {
		t.Error("Expected a token in the response")
	}

	if response.User.Email != "widya@example.com" {
		t.Errorf("Expected email 'widya@example.com', got %s", response.User.Email)
	}

	if strings.Contains(rec.Body.String(), "password") {
		t.Error("Expected no password material in the response")
	}
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	e := echo.New()
	_, handler := newAuthHandlerFixture()

	reqBody := `{"name": "Widya", "email": "widya@example.com", "password": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	e := echo.New()
	authService, handler := newAuthHandlerFixture()

	if _, _, err := authService.Register(service.RegisterInput{
		Name:     "Widya",
		Email:    "widya@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reqBody := `{"name": "Impostor", "email": "widya@example.com", "password": "other-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestLoginHandler_Success(t *testing.T) {
	e := echo.New()
	authService, handler := newAuthHandlerFixture()

	if _, _, err := authService.Register(service.RegisterInput{
		Name:     "Widya",
		Email:    "widya@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reqBody := `{"email": "widya@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Token == "" {
		t.Error("Expected a token in the response")
	}
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	e := echo.New()
	authService, handler := newAuthHandlerFixture()

	if _, _, err := authService.Register(service.RegisterInput{
		Name:     "Widya",
		Email:    "widya@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reqBody := `{"email": "widya@example.com", "password": "wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMeHandler_Success(t *testing.T) {
	e := echo.New()
	authService, handler := newAuthHandlerFixture()

	user, _, err := authService.Register(service.RegisterInput{
		Name:     "Widya",
		Email:    "widya@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetUserID(c, user.ID)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.ID != user.ID.String() {
		t.Errorf("Expected user ID %s, got %s", user.ID, response.ID)
	}
}

func TestMeHandler_UnknownUser(t *testing.T) {
	e := echo.New()
	_, handler := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetUserID(c, uuid.New())

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
