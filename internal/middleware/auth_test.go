package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*TokenClaims, error) {
	return s.claims, s.err
}

func authTestRouter(validator TokenValidator, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(validator)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		caller, ok := Caller(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "caller missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": caller.Username})
	})
	engine.GET("/protected", handlers...)
	return engine
}

func doRequest(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	valid := &stubValidator{claims: &TokenClaims{UserID: 1, Username: "tech1", Role: models.RoleStaff}}

	tests := []struct {
		name      string
		validator TokenValidator
		header    string
		wantCode  int
	}{
		{"valid token", valid, "Bearer good", http.StatusOK},
		{"missing header", valid, "", http.StatusUnauthorized},
		{"wrong scheme", valid, "Basic abc", http.StatusUnauthorized},
		{"malformed header", valid, "Bearer", http.StatusUnauthorized},
		{"rejected token", &stubValidator{err: errors.New("token expired")}, "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(authTestRouter(tt.validator), tt.header)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	staff := &stubValidator{claims: &TokenClaims{UserID: 1, Username: "tech1", Role: models.RoleStaff}}
	admin := &stubValidator{claims: &TokenClaims{UserID: 2, Username: "boss", Role: models.RoleAdmin}}

	rec := doRequest(authTestRouter(staff, models.RoleAdmin), "Bearer token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(authTestRouter(admin, models.RoleAdmin), "Bearer token")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(authTestRouter(staff, models.RoleAdmin, models.RoleStaff), "Bearer token")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	var limiter *RateLimiter
	engine.GET("/open", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
