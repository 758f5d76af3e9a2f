package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busbooking/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func accessClaims(userID uuid.UUID, role string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID.String(),
		"email":   "rider@example.com",
		"role":    role,
		"type":    "access",
		"exp":     exp.Unix(),
	}
}

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	var (
		seen   *UserContext
		authed bool
	)
	r := gin.New()
	r.GET("/", OptionalAuthWithConfig(testConfig()), func(c *gin.Context) {
		seen, authed = GetUserContext(c)
		c.Status(http.StatusNoContent)
	})

	w := serve(r, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, authed)

	expired := signed(t, accessClaims(userID, "USER", time.Now().Add(-time.Minute)))
	w = serve(r, expired)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, authed, "an expired token is treated as anonymous")

	refresh := accessClaims(userID, "USER", time.Now().Add(time.Hour))
	refresh["type"] = "refresh"
	serve(r, signed(t, refresh))
	assert.False(t, authed)

	serve(r, signed(t, accessClaims(userID, "USER", time.Now().Add(time.Hour))))
	require.True(t, authed)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, "rider@example.com", seen.Email)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", JWTAuthWithConfig(testConfig()), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)

	user := signed(t, accessClaims(uuid.New(), "USER", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, serve(r, user).Code)

	admin := signed(t, accessClaims(uuid.New(), "ADMIN", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusNoContent, serve(r, admin).Code)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)
}
