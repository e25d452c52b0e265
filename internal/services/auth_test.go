package services

import (
	"errors"
	"testing"

	"github.com/taskhive/backend/internal/models"
	"github.com/taskhive/backend/internal/utils"
)

func init() {
	utils.SetJWTSecret("test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, 24)

	user, err := svc.Register(&RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "supersecret",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != models.RoleMember {
		t.Errorf("new accounts should be members, got %s", user.Role)
	}
	if user.PasswordHash == "supersecret" {
		t.Error("password must be stored hashed")
	}

	resp, err := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("login should issue a token")
	}
	if resp.User.LastLogin == nil {
		t.Error("login should stamp last_login")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token UserID = %d, expected %d", claims.UserID, user.ID)
	}
	if claims.Role != string(models.RoleMember) {
		t.Errorf("token Role = %q, expected %q", claims.Role, models.RoleMember)
	}
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, 24)

	req := &RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "supersecret",
		FirstName: "Alice",
		LastName:  "Smith",
	}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	req.Username = "alice2"
	if _, err := svc.Register(req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: expected ErrEmailTaken, got %v", err)
	}

	req.Email = "alice2@example.com"
	req.Username = "alice"
	if _, err := svc.Register(req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate username: expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, 24)

	if _, err := svc.Register(&RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "supersecret",
		FirstName: "Bob", LastName: "Jones",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Email: "bob@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "supersecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	// Deactivated accounts fail like wrong passwords, leaking nothing.
	db.Model(&models.User{}).Where("email = ?", "bob@example.com").Update("is_active", false)
	if _, err := svc.Login(&LoginRequest{Email: "bob@example.com", Password: "supersecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("deactivated account: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, 24)

	if err := svc.EnsureAdmin("admin", "admin@example.com", "changeme123"); err != nil {
		t.Fatalf("first EnsureAdmin: %v", err)
	}
	if err := svc.EnsureAdmin("admin2", "admin2@example.com", "changeme123"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 admin, got %d", count)
	}
}
