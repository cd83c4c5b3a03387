package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/models"
	"travelguide/internal/microservices/http-api/service"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func postJSON(t *testing.T, url string, v any) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, quietLogger())
	router := setupRouter()
	router.POST("/register", handler.Register)

	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
	}
	mockAuthService.On("Register", "testuser", "password123", "test@example.com").Return(user, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON(t, "/register", dto.RegisterRequest{
		Username: "testuser",
		Password: "password123",
		Email:    "test@example.com",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "user-123", response["user_id"])
	assert.Equal(t, "testuser", response["username"])
	assert.Equal(t, "test@example.com", response["email"])

	mockAuthService.AssertExpectations(t)
}

func TestRegister_Conflict(t *testing.T) {
	for _, sentinel := range []error{service.ErrNameInUse, service.ErrEmailInUse} {
		mockAuthService := new(MockAuthService)
		handler := NewAuthHandler(mockAuthService, quietLogger())
		router := setupRouter()
		router.POST("/register", handler.Register)

		mockAuthService.On("Register", "testuser", "password123", "test@example.com").Return(nil, sentinel)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postJSON(t, "/register", dto.RegisterRequest{
			Username: "testuser",
			Password: "password123",
			Email:    "test@example.com",
		}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"account creation failed"}`, w.Body.String())
	}
}

func TestRegister_InvalidBody(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, quietLogger())
	router := setupRouter()
	router.POST("/register", handler.Register)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON(t, "/register", map[string]string{"username": "ab", "email": "nope"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Register")
}

func TestLogin_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, quietLogger())
	router := setupRouter()
	router.POST("/login", handler.Login)

	mockAuthService.On("Login", "testuser", "password123").
		Return("access", "refresh", &models.User{ID: "user-123", Username: "testuser"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON(t, "/login", dto.LoginRequest{Username: "testuser", Password: "password123"}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, quietLogger())
	router := setupRouter()
	router.POST("/login", handler.Login)

	mockAuthService.On("Login", "testuser", "wrong").Return("", "", nil, service.ErrInvalidCredentials)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON(t, "/login", dto.LoginRequest{Username: "testuser", Password: "wrong"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_StoreFailure(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, quietLogger())
	router := setupRouter()
	router.POST("/login", handler.Login)

	mockAuthService.On("Login", "testuser", "pw").Return("", "", nil, errors.New("db down"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON(t, "/login", dto.LoginRequest{Username: "testuser", Password: "pw"}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRefreshToken(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"rotated", nil, http.StatusOK},
		{"expired", service.ErrExpiredToken, http.StatusUnauthorized},
		{"revoked", service.ErrInvalidToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuthService := new(MockAuthService)
			handler := NewAuthHandler(mockAuthService, quietLogger())
			router := setupRouter()
			router.POST("/refresh", handler.RefreshToken)

			mockAuthService.On("RefreshAccessToken", "rt").Return("new-access", "new-refresh", tt.err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, postJSON(t, "/refresh", dto.RefreshTokenRequest{RefreshToken: "rt"}))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.err == nil {
				var resp dto.RefreshResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "new-refresh", resp.RefreshToken)
			}
		})
	}
}

func TestRevokeToken_AlwaysSucceeds(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, quietLogger())
	router := setupRouter()
	router.POST("/revoke", handler.RevokeToken)

	mockAuthService.On("RevokeToken", "rt").Return(errors.New("db down"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON(t, "/revoke", dto.RefreshTokenRequest{RefreshToken: "rt"}))

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuthService.AssertExpectations(t)
}
