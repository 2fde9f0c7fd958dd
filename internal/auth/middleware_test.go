package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGateRouter(tm *TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tm), func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID.String()})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tm := newTestTokenManager(t)
	router := setupGateRouter(tm)
	userID := uuid.New()

	validToken, err := tm.GenerateToken(userID)
	require.NoError(t, err)

	expiredManager, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	expiredManager.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expiredToken, err := expiredManager.GenerateToken(userID)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authentication required"},
		{"wrong scheme", "Basic " + validToken, http.StatusUnauthorized, "Authentication required"},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "Authentication required"},
		{"malformed token", "Bearer not-a-jwt", http.StatusUnauthorized, "Invalid or expired token"},
		{"tampered token", "Bearer " + validToken + "x", http.StatusUnauthorized, "Invalid or expired token"},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer " + validToken, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + validToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, userID.String(), body["userId"])
				return
			}
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.expectedMsg, body["message"])
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserIDFromContext(c)
	assert.False(t, ok)
}
