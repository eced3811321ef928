package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := r.Group("/admin", JWTAuth(auth.NewTokenValidator(secret)), AdminOnly())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c)})
	})
	return r
}

func token(t *testing.T, secret, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin-1",
		"role": role,
		"typ":  "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoute_AllowsAdmin(t *testing.T) {
	r := setupRouter("jwt-secret")

	w := get(r, "Bearer "+token(t, "jwt-secret", "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"admin-1"}`, w.Body.String())
}

func TestAdminRoute_RejectsNonAdmin(t *testing.T) {
	r := setupRouter("jwt-secret")

	w := get(r, "Bearer "+token(t, "jwt-secret", "student"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoute_RejectsMissingOrBadToken(t *testing.T) {
	r := setupRouter("jwt-secret")

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token(t, "other-secret", "admin")).Code)
}

func TestAdminRoute_DisabledWithoutSecret(t *testing.T) {
	r := setupRouter("")

	w := get(r, "Bearer "+token(t, "jwt-secret", "admin"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
