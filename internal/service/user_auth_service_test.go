package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zopumarket/zopumarket/internal/config"
	"github.com/zopumarket/zopumarket/internal/constants"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newUserAuthService(t *testing.T) (*UserAuthService, repository.UserRepository) {
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

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireLower:  true,
		RequireNumber: true,
	}

	repo := repository.NewUserRepository(db)
	return NewUserAuthService(cfg, repo), repo
}

func TestUserRegisterAndLogin(t *testing.T) {
	service, _ := newUserAuthService(t)

	user, err := service.Register(RegisterInput{
		Email:       "Joana@Prado.com.br",
		Password:    "segredo123",
		DisplayName: "Joana Prado",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "joana@prado.com.br" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != constants.UserRoleBuyer {
		t.Fatalf("role = %q, want buyer", user.Role)
	}

	logged, token, _, err := service.Login("joana@prado.com.br", "segredo123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || token == "" {
		t.Fatalf("unexpected login result")
	}

	claims, err := service.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.UserRoleBuyer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestUserRegisterRejectsWeakPassword(t *testing.T) {
	service, _ := newUserAuthService(t)

	_, err := service.Register(RegisterInput{
		Email:    "joana@prado.com.br",
		Password: "curta",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestUserRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _ := newUserAuthService(t)

	if _, err := service.Register(RegisterInput{Email: "joana@prado.com.br", Password: "segredo123"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := service.Register(RegisterInput{Email: "joana@prado.com.br", Password: "segredo123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserLoginRejectsBadPassword(t *testing.T) {
	service, _ := newUserAuthService(t)
	if _, err := service.Register(RegisterInput{Email: "joana@prado.com.br", Password: "segredo123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _, err := service.Login("joana@prado.com.br", "errada999")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestProvisionPartnerOperator(t *testing.T) {
	service, repo := newUserAuthService(t)

	partner := &models.Partner{
		ID:           42,
		CompanyName:  "Acme Consultoria",
		ContactName:  "Carlos Lima",
		ContactEmail: "carlos@acme.com.br",
	}
	user, password, err := service.ProvisionPartnerOperator(partner)
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if password == "" {
		t.Fatalf("expected a temporary password")
	}
	if user.Role != constants.UserRolePartner {
		t.Fatalf("role = %q, want partner", user.Role)
	}
	if user.PartnerID == nil || *user.PartnerID != 42 {
		t.Fatalf("partner id = %v, want 42", user.PartnerID)
	}

	// Provisioning again is a no-op returning the existing account.
	again, password2, err := service.ProvisionPartnerOperator(partner)
	if err != nil {
		t.Fatalf("second provision failed: %v", err)
	}
	if again.ID != user.ID || password2 != "" {
		t.Fatalf("second provision should reuse the account")
	}

	stored, err := repo.GetByPartnerID(42)
	if err != nil || stored == nil {
		t.Fatalf("operator not stored: %v", err)
	}

	if _, _, _, err := service.Login("carlos@acme.com.br", password); err != nil {
		t.Fatalf("login with temporary password failed: %v", err)
	}
}
