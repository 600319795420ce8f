package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cinehub/internal/models"
	"cinehub/internal/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(ctx, username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func newAuthRouter(svc *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(svc)
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	return r
}

func TestLoginHandler(t *testing.T) {
	t.Run("SuccessSetsCookieAndRedirect", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice", "secret123").
			Return("tok123", &models.User{ID: "u1", Username: "alice"}, nil)

		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"identifier":"alice","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "/browse", body["redirect"])
		assert.Contains(t, w.Header().Get("Set-Cookie"), "auth_token=tok123")
	})

	t.Run("AcceptsUsernameKey", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice", "secret123").
			Return("tok123", &models.User{ID: "u1", Username: "alice"}, nil)

		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":"alice","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("BadCredentialsIs401", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice", "wrong").
			Return("", nil, service.ErrInvalidCredentials)

		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"identifier":"alice","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MissingIdentifierIs400", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Login")
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("ConflictIs409", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "alice", "secret123", "alice@x.com").
			Return(nil, service.ErrEmailInUse)

		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"username":"alice","password":"secret123","email":"alice@x.com"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already in use")
	})

	t.Run("CreatedIs201", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "", "secret123", "alice@x.com").
			Return(&models.User{ID: "u1", Username: "alice"}, nil)

		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"password":"secret123","email":"alice@x.com"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("MissingEmailIs400", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"username":"alice","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Register")
	})
}

func TestLogoutHandler(t *testing.T) {
	svc := new(MockAuthService)
	router := newAuthRouter(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
	// Cookie is cleared
	assert.Contains(t, w.Header().Get("Set-Cookie"), "auth_token=;")
}
