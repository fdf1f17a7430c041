package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-hub/domain/dto"
	"creator-hub/infrastructure/configuration"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/ping", Auth(nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func expiredToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_name": "danabrand",
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(configuration.C.App.SecretKey))
	require.NoError(t, err)
	return signed
}

func TestAuth_MissingHeader(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedToken(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var res dto.Res
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "That's not even a token", res.ResponseMessage)
}

// Concurrent rejections must each carry their own error text; the handler
// holds no state shared across requests.
func TestAuth_ConcurrentRejectionsKeepOwnMessage(t *testing.T) {
	router := authRouter()
	expired := expiredToken(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		token, want := "not-a-token", "That's not even a token"
		if i%2 == 0 {
			token, want = expired, "Timing is everything"
		}
		go func(token, want string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var res dto.Res
			if assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res)) {
				assert.Equal(t, want, res.ResponseMessage)
			}
		}(token, want)
	}
	wg.Wait()
}
