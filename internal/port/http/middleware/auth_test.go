package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Issue(ctx context.Context, email string) (string, error) {
	panic("Issue not used by middleware")
}

func (m *mockVerifier) Verify(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func newAuthHandler(auth service.AuthService) (http.Handler, *bool, **service.Claims) {
	called := false
	var seen *service.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return JWTAuth(auth, &logger.NoOpLogger{})(next), &called, &seen
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	mockAuth := new(mockVerifier)
	handler, called, _ := newAuthHandler(mockAuth)

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
	mockAuth.AssertNotCalled(t, "Verify")
}

func TestJWTAuth_BadScheme(t *testing.T) {
	mockAuth := new(mockVerifier)
	handler, called, _ := newAuthHandler(mockAuth)

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
	mockAuth.AssertNotCalled(t, "Verify")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	mockAuth := new(mockVerifier)
	mockAuth.On("Verify", "bad-token").Return(nil, service.ErrForbidden).Once()
	handler, called, _ := newAuthHandler(mockAuth)

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)
	mockAuth.AssertExpectations(t)
}

func TestJWTAuth_ValidTokenBindsClaims(t *testing.T) {
	mockAuth := new(mockVerifier)
	claims := &service.Claims{Email: "seller@example.com", Role: entity.RoleSeller}
	mockAuth.On("Verify", "good-token").Return(claims, nil).Once()
	handler, called, seen := newAuthHandler(mockAuth)

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.NotNil(t, *seen)
	assert.Equal(t, "seller@example.com", (*seen).Email)
	assert.Equal(t, entity.RoleSeller, (*seen).Role)
	mockAuth.AssertExpectations(t)
}

func TestJWTAuth_CaseInsensitiveBearer(t *testing.T) {
	mockAuth := new(mockVerifier)
	claims := &service.Claims{Email: "seller@example.com", Role: entity.RoleSeller}
	mockAuth.On("Verify", "good-token").Return(claims, nil).Once()
	handler, called, _ := newAuthHandler(mockAuth)

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	mockAuth.AssertExpectations(t)
}
