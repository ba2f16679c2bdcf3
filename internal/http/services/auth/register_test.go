package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	authsvc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
	tokens "github.com/max31337/salesoptimizer-sub001/internal/security/token"
)

func seedInvitation(fx *fixture, email string, ttl time.Duration) string {
	raw, _ := tokens.GenerateOpaqueToken(32)
	tenantID := "tenant-1"
	fx.invitations.add(repository.Invitation{
		Email:     email,
		Role:      repository.RoleSalesRep,
		TokenHash: tokens.SHA256Base64URL(raw),
		TenantID:  &tenantID,
		ExpiresAt: time.Now().Add(ttl),
	})
	return raw
}

func TestRegister_RedeemsInvitation(t *testing.T) {
	fx := newFixture(t)
	raw := seedInvitation(fx, "new@acme.test", time.Hour)

	resp, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token:    raw,
		Password: "a-long-enough-password",
		Username: "newbie",
	}, meta)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.UserID == "" || resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}

	// El usuario quedó creado con el email y rol de la invitación
	u, err := fx.users.GetByID(context.Background(), resp.UserID)
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	if u.Email != "new@acme.test" || u.Role != repository.RoleSalesRep {
		t.Fatalf("user mismatch: %+v", u)
	}
	if u.TenantID == nil || *u.TenantID != "tenant-1" {
		t.Fatal("user must inherit the invitation tenant")
	}

	// Y puede loguearse con el password elegido
	if _, err := fx.svc.Login(context.Background(), dto.LoginRequest{
		Email: "new@acme.test", Password: "a-long-enough-password",
	}, meta); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestRegister_SingleUse(t *testing.T) {
	fx := newFixture(t)
	raw := seedInvitation(fx, "new@acme.test", time.Hour)

	if _, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: raw, Password: "a-long-enough-password",
	}, meta); err != nil {
		t.Fatalf("first redeem: %v", err)
	}

	_, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: raw, Password: "another-long-password",
	}, meta)
	if !errors.Is(err, authsvc.ErrInvitationInvalid) {
		t.Fatalf("second redeem: expected ErrInvitationInvalid, got %v", err)
	}
}

func TestRegister_FailedCreateKeepsInvitationRedeemable(t *testing.T) {
	fx := newFixture(t)
	raw := seedInvitation(fx, "dup@acme.test", time.Hour)

	// El email de la invitación ya tiene cuenta: el alta va a fallar
	existing := fx.addActiveUser(t, "dup@acme.test", "some-other-password")

	_, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: raw, Password: "a-long-enough-password",
	}, meta)
	if !errors.Is(err, authsvc.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Un alta fallida no consume la invitación
	inv, err := fx.invitations.GetByTokenHash(context.Background(), tokens.SHA256Base64URL(raw))
	if err != nil {
		t.Fatalf("invitation lookup: %v", err)
	}
	if inv.IsUsed {
		t.Fatal("a failed registration must not burn the invitation")
	}

	// Resuelto el conflicto, el mismo token sigue siendo canjeable
	fx.users.mu.Lock()
	delete(fx.users.byID, existing.ID)
	fx.users.mu.Unlock()

	if _, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: raw, Password: "a-long-enough-password",
	}, meta); err != nil {
		t.Fatalf("redeem after resolving the conflict: %v", err)
	}
}

func TestRegister_ExpiredInvitation(t *testing.T) {
	fx := newFixture(t)
	raw := seedInvitation(fx, "late@acme.test", -time.Minute)

	_, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: raw, Password: "a-long-enough-password",
	}, meta)
	if !errors.Is(err, authsvc.ErrInvitationInvalid) {
		t.Fatalf("expected ErrInvitationInvalid, got %v", err)
	}
}

func TestRegister_UnknownToken(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: "made-up-token", Password: "a-long-enough-password",
	}, meta)
	if !errors.Is(err, authsvc.ErrInvitationInvalid) {
		t.Fatalf("expected ErrInvitationInvalid, got %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	fx := newFixture(t)
	raw := seedInvitation(fx, "new@acme.test", time.Hour)

	_, err := fx.svc.Register(context.Background(), dto.RegisterRequest{
		Token: raw, Password: "short",
	}, meta)
	if !errors.Is(err, authsvc.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
