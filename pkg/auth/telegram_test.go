package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initData(user string) string {
	v := url.Values{}
	v.Set("auth_date", "1700000000")
	if user != "" {
		v.Set("user", user)
	}
	return v.Encode()
}

func TestExtractTelegramData(t *testing.T) {
	data, err := ExtractTelegramData(initData(`{"id":42,"first_name":"Mario","username":"mario"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), data.ID)
	assert.Equal(t, "mario", data.Username)
	assert.Equal(t, "Mario", data.FirstName)
	assert.Equal(t, time.Unix(1700000000, 0), data.AuthDate)

	_, err = ExtractTelegramData(initData(""))
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = ExtractTelegramData(initData(`{"first_name":"Nobody"}`))
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = ExtractTelegramData("user=%7B%7D")
	assert.Error(t, err)
}

func TestTelegramAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewTelegramAuth("token", true).TelegramAuthMiddleware())
	router.GET("/me", func(c *gin.Context) {
		user, ok := UserFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Bearer abc", http.StatusUnauthorized},
		{"no user", "Telegram " + initData(""), http.StatusUnauthorized},
		{"ok", "Telegram " + initData(`{"id":7}`), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestTelegramAuthMiddleware_ValidatesSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewTelegramAuth("token", false).TelegramAuthMiddleware())
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Telegram "+initData(`{"id":7}`)+"&hash=deadbeef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
