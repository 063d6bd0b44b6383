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

var testSecret = []byte("test-secret")

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt("user_id"), "name": c.GetString("user_name")})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func TestJWTAuth_ValidToken(t *testing.T) {
	r := newAuthRouter(t)
	token, err := IssueToken(testSecret, 7, "ana", "disciple")
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":7`)
	assert.Contains(t, w.Body.String(), `"name":"ana"`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	r := newAuthRouter(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": 7, "name": "ana", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
}

func TestJWTAuth_MissingIdentityClaims(t *testing.T) {
	r := newAuthRouter(t)
	exp := time.Now().Add(time.Hour).Unix()

	// validly signed but without uid/name: rejected, not a panic
	for _, claims := range []jwt.MapClaims{
		{"exp": exp},
		{"uid": 7.0, "exp": exp},
		{"name": "ana", "exp": exp},
		{"uid": "not-a-number", "name": "ana", "exp": exp},
	} {
		w := get(r, "Bearer "+signClaims(t, claims))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "claims %v must be rejected", claims)
	}
}

func TestJWTAuth_RenewsNearExpiry(t *testing.T) {
	r := newAuthRouter(t)
	token := signClaims(t, jwt.MapClaims{
		"uid": 7.0, "name": "ana", "role": "disciple",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-New-Token"), "a token within a day of expiry is renewed")
}
