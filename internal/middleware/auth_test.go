package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(200, gin.H{
			"userId": c.GetUint("userId"),
			"role":   c.GetString("role"),
		})
	})

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid token passes", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"id": 7, "role": "staff", "exp": exp})
		w := get(token)
		assert.Equal(t, 200, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"staff"`)
	})

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, 401, get("").Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"id": 7, "role": "staff", "exp": exp})
		assert.Equal(t, 401, get(token).Code)
	})

	// a validly signed token with malformed claims must be rejected,
	// not panic the handler
	t.Run("missing id claim", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"role": "staff", "exp": exp})
		assert.Equal(t, 401, get(token).Code)
	})

	t.Run("missing role claim", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"id": 7, "exp": exp})
		assert.Equal(t, 401, get(token).Code)
	})

	t.Run("non-string role claim", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"id": 7, "role": 3, "exp": exp})
		assert.Equal(t, 401, get(token).Code)
	})

	t.Run("token via query parameter", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"id": 7, "role": "staff", "exp": exp})
		req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code)
	})
}
