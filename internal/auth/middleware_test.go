package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Empty header", "", http.StatusUnauthorized},
		{"Invalid format", "Token abc", http.StatusUnauthorized},
		{"Garbage token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			c.Request = req

			handler := Middleware(testSecret)
			handler(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestMiddleware_ValidTokenSetsScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := GenerateToken("owner-1", "gym-1", "owner@example.com", "admin", testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c.Request = req

	Middleware(testSecret)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, "owner-1", c.GetString("owner_id"))
	assert.Equal(t, "gym-1", c.GetString("gym_id"))
	assert.Equal(t, "admin", c.GetString("role"))

	gymID, ok := GetGymID(c)
	assert.True(t, ok)
	assert.Equal(t, "gym-1", gymID)
}

func TestRequireStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		role    string
		aborted bool
	}{
		{"admin", false},
		{"manager", false},
		{"member", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			if tt.role != "" {
				c.Set("role", tt.role)
			}

			RequireStaff()(c)

			assert.Equal(t, tt.aborted, c.IsAborted())
			if tt.aborted {
				assert.Equal(t, http.StatusForbidden, w.Code)
			}
		})
	}
}
