package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/you/medsync/domain"
	"github.com/you/medsync/internal/mocks"
)

func protectedRouter(tokenSvc domain.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", NewAuthMW(tokenSvc).WithJWT(), func(c *gin.Context) {
		role, _ := c.Get("user_role")
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		setupMocks func(*mocks.MockTokenService)
		expected   int
	}{
		{
			name:       "valid token passes and sets identity",
			authHeader: "Bearer mock_token",
			expected:   http.StatusOK,
		},
		{
			name:     "missing header",
			expected: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic abc123",
			expected:   http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer stale",
			setupMocks: func(m *mocks.MockTokenService) {
				m.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenExpired
				}
			},
			expected: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer garbage",
			setupMocks: func(m *mocks.MockTokenService) {
				m.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenInvalid
				}
			},
			expected: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mocks.NewMockTokenService()
			if tt.setupMocks != nil {
				tt.setupMocks(tokenSvc)
			}
			r := protectedRouter(tokenSvc)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("expected status %d, got %d: %s", tt.expected, w.Code, w.Body.String())
			}
		})
	}
}
