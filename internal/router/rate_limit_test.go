package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	keyFunc := KeyByIPAndJSONField("email")

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	body := `{"email":" Test@Example.com ","password":"secret"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := keyFunc(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("unexpected key: %q", key)
	}

	restored := make([]byte, len(body))
	n, err := c.Request.Body.Read(restored)
	if err != nil && err.Error() != "EOF" {
		t.Fatalf("read restored body: %v", err)
	}
	if string(restored[:n]) != body {
		t.Fatalf("body not restored, got %q", string(restored[:n]))
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	keyFunc := KeyByIPAndJSONField("email")

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("not-json"))
	c.Request.RemoteAddr = "9.8.7.6:1234"

	if key := keyFunc(c); key != "9.8.7.6" {
		t.Fatalf("expected ip fallback, got %q", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.POST("/login",
		RateLimitMiddleware(nil, RateLimitRule{Prefix: "login", WindowSeconds: 60, MaxRequests: 1}, KeyByIP),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/login", nil)
		engine.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d blocked without redis: status %d", i, recorder.Code)
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		input    interface{}
		expected int64
	}{
		{int64(7), 7},
		{3, 3},
		{"42", 42},
		{"not-a-number", 0},
		{nil, 0},
	}
	for _, item := range cases {
		if got := toInt64(item.input); got != item.expected {
			t.Fatalf("toInt64(%v) = %d, want %d", item.input, got, item.expected)
		}
	}
}
