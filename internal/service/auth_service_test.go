package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"vanguard-hq/backend/config"
	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/repository"
	"vanguard-hq/backend/pkg/jwt"
)

func newAuthFixture() (AuthService, *jwt.Manager, *mockUserRepo) {
	users := newMockUserRepo()
	repo := &repository.Repository{User: users}

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "unit-test-secret-0123456789"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 24 * time.Hour

	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop()), jwtMgr, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Callsign: "Viper",
		Email:    "viper@vanguard.example",
		Password: "hunter2hunter2",
		Branch:   "marines",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Status != model.UserStatusApplicant {
		t.Errorf("new account status = %q, want applicant", reg.Status)
	}

	tokens, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "viper@vanguard.example",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("login must issue both tokens")
	}
	if tokens.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in = %d, want %d", tokens.ExpiresIn, int((15 * time.Minute).Seconds()))
	}
	if tokens.User.Callsign != "Viper" {
		t.Errorf("token user callsign = %q, want Viper", tokens.User.Callsign)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "viper@vanguard.example",
		Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	base := &dto.RegisterRequest{
		Callsign: "Viper",
		Email:    "viper@vanguard.example",
		Password: "hunter2hunter2",
		Branch:   "marines",
	}
	if _, err := svc.Register(ctx, base); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dup := *base
	dup.Callsign = "Cobra"
	if _, err := svc.Register(ctx, &dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: expected ErrEmailTaken, got %v", err)
	}

	dup = *base
	dup.Email = "cobra@vanguard.example"
	if _, err := svc.Register(ctx, &dup); !errors.Is(err, ErrCallsignTaken) {
		t.Fatalf("duplicate callsign: expected ErrCallsignTaken, got %v", err)
	}
}

func TestLoginBlocksDischargedAccounts(t *testing.T) {
	svc, _, users := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Callsign: "Ghost",
		Email:    "ghost@vanguard.example",
		Password: "hunter2hunter2",
		Branch:   "fleet",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, u := range users.users {
		u.Status = model.UserStatusDischarged
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "ghost@vanguard.example",
		Password: "hunter2hunter2",
	}); !errors.Is(err, ErrAccountDischarged) {
		t.Fatalf("expected ErrAccountDischarged, got %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, jwtMgr, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Callsign: "Viper",
		Email:    "viper@vanguard.example",
		Password: "hunter2hunter2",
		Branch:   "marines",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tokens, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "viper@vanguard.example",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// An access token must not be accepted on the refresh endpoint.
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: tokens.AccessToken}); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("access token on refresh: expected ErrInvalidRefresh, got %v", err)
	}
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: "not-a-token"}); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("garbage token: expected ErrInvalidRefresh, got %v", err)
	}

	renewed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := jwtMgr.ParseToken(renewed.AccessToken)
	if err != nil {
		t.Fatalf("parse renewed access token: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("renewed token type = %q, want access", claims.TokenType)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Callsign: "Viper",
		Email:    "viper@vanguard.example",
		Password: "hunter2hunter2",
		Branch:   "marines",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	err = svc.ChangePassword(ctx, reg.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "correcthorsebattery",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Fatalf("expected ErrOldPasswordWrong, got %v", err)
	}

	if err := svc.ChangePassword(ctx, reg.ID, &dto.ChangePasswordRequest{
		OldPassword: "hunter2hunter2",
		NewPassword: "correcthorsebattery",
	}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "viper@vanguard.example",
		Password: "correcthorsebattery",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
