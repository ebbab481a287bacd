package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"
)

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name             string
		origin           string
		allowed          []string
		allowCredentials bool
		expected         string
	}{
		{"wildcard without credentials", "https://app.example.com", []string{"*"}, false, "*"},
		{"wildcard with credentials echoes origin", "https://app.example.com", []string{"*"}, true, "https://app.example.com"},
		{"exact match", "https://app.example.com", []string{"https://app.example.com"}, false, "https://app.example.com"},
		{"case insensitive match", "https://APP.example.com", []string{"https://app.example.com"}, false, "https://APP.example.com"},
		{"no match", "https://evil.example.com", []string{"https://app.example.com"}, false, ""},
		{"empty origin non wildcard", "", []string{"https://app.example.com"}, false, ""},
	}
	for _, item := range cases {
		t.Run(item.name, func(t *testing.T) {
			got := resolveAllowedOrigin(item.origin, item.allowed, item.allowCredentials)
			if got != item.expected {
				t.Fatalf("got %q, want %q", got, item.expected)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, getRequestID(c))
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(requestIDHeader, "req-123")
	engine.ServeHTTP(recorder, request)
	if recorder.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("incoming request id not echoed, got %q", recorder.Header().Get(requestIDHeader))
	}
	if recorder.Body.String() != "req-123" {
		t.Fatalf("request id not stored in context, got %q", recorder.Body.String())
	}

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(recorder, request)
	if recorder.Header().Get(requestIDHeader) == "" {
		t.Fatal("request id not generated when header missing")
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/admin", JWTAuthMiddleware("", nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin", nil)
	request.Header.Set("Authorization", "Bearer whatever")
	engine.ServeHTTP(recorder, request)

	var payload struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.StatusCode != 401 {
		t.Fatalf("expected status_code 401, got %d", payload.StatusCode)
	}
}

func setupUserAuthTest(t *testing.T) *repository.GormUserRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return repository.NewUserRepository(db)
}

func signUserToken(t *testing.T, secret string, claims *service.UserJWTClaims) string {
	t.Helper()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestUserJWTAuthMiddlewarePartnerBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userRepo := setupUserAuthTest(t)
	partnerID := uint(42)
	user := &models.User{
		Email:        "op@parceiro.com.br",
		PasswordHash: "x",
		Role:         constants.UserRolePartner,
		PartnerID:    &partnerID,
		Status:       constants.UserStatusActive,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	secret := "test-secret"
	engine := gin.New()
	engine.GET("/portal",
		UserJWTAuthMiddleware(secret, userRepo),
		RequirePartnerRole(),
		func(c *gin.Context) {
			boundPartner, _ := c.Get("partner_id")
			c.JSON(http.StatusOK, gin.H{"partner_id": boundPartner})
		})

	token := signUserToken(t, secret, &service.UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/portal", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("partner operator rejected: status %d body %s", recorder.Code, recorder.Body.String())
	}

	var payload struct {
		PartnerID uint `json:"partner_id"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.PartnerID != partnerID {
		t.Fatalf("expected partner_id %d bound, got %d", partnerID, payload.PartnerID)
	}
}

func TestUserJWTAuthMiddlewareRejectsDisabledAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userRepo := setupUserAuthTest(t)
	user := &models.User{
		Email:        "buyer@example.com",
		PasswordHash: "x",
		Role:         constants.UserRoleBuyer,
		Status:       constants.UserStatusDisabled,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	secret := "test-secret"
	engine := gin.New()
	engine.GET("/me", UserJWTAuthMiddleware(secret, userRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	token := signUserToken(t, secret, &service.UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)

	var payload struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.StatusCode != 401 {
		t.Fatalf("expected status_code 401 for disabled account, got %d", payload.StatusCode)
	}
}

func TestRequirePartnerRoleRejectsBuyer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/portal",
		func(c *gin.Context) {
			c.Set("user_id", uint(1))
			c.Set("user_role", constants.UserRoleBuyer)
		},
		RequirePartnerRole(),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/portal", nil)
	engine.ServeHTTP(recorder, request)

	var payload struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.StatusCode != 403 {
		t.Fatalf("expected status_code 403, got %d", payload.StatusCode)
	}
}
