package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/maison-next/internal/config"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newAuthServiceTest(t *testing.T) (*AuthService, repository.AdminRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.ExpireHours = 2

	adminRepo := repository.NewAdminRepository(db)
	return NewAuthService(cfg, adminRepo), adminRepo
}

func seedAdmin(t *testing.T, svc *AuthService, repo repository.AdminRepository, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash, IsSuper: true}
	if err := repo.Create(admin); err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}
	return admin
}

func TestLoginAndParseJWT(t *testing.T) {
	svc, repo := newAuthServiceTest(t)
	seedAdmin(t, svc, repo, "maison", "s3cret-pass")

	admin, token, expiresAt, err := svc.Login("maison", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("expected token and expiry")
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("last login not touched")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "maison" || !claims.IsSuper {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, repo := newAuthServiceTest(t)
	seedAdmin(t, svc, repo, "maison", "s3cret-pass")

	if _, _, _, err := svc.Login("maison", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password want ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "s3cret-pass"); err != ErrInvalidCredentials {
		t.Fatalf("unknown user want ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthServiceTest(t)
	admin := seedAdmin(t, svc, repo, "maison", "old-pass")

	if err := svc.ChangePassword(admin.ID, "bad-old", "new-pass"); err != ErrInvalidPassword {
		t.Fatalf("want ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "old-pass", "new-pass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("maison", "new-pass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
