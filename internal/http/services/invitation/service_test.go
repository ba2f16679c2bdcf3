package invitation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/invitation"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
	tokens "github.com/max31337/salesoptimizer-sub001/internal/security/token"
)

type fakeInvitations struct {
	created   *repository.CreateInvitationInput
	conflict  bool
	gotFilter repository.ListInvitationsFilter
}

func (f *fakeInvitations) Create(_ context.Context, in repository.CreateInvitationInput) (*repository.Invitation, error) {
	if f.conflict {
		return nil, repository.ErrConflict
	}
	f.created = &in
	return &repository.Invitation{
		ID:        "inv-1",
		Email:     in.Email,
		Role:      in.Role,
		TokenHash: in.TokenHash,
		TenantID:  in.TenantID,
		ExpiresAt: time.Now().Add(in.TTL),
	}, nil
}

func (f *fakeInvitations) GetByTokenHash(context.Context, string) (*repository.Invitation, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeInvitations) MarkUsed(context.Context, string) error { return nil }

func (f *fakeInvitations) List(_ context.Context, filter repository.ListInvitationsFilter) ([]repository.Invitation, int, error) {
	f.gotFilter = filter
	return nil, 0, nil
}
func (f *fakeInvitations) DeleteExpired(context.Context) (int, error) { return 0, nil }

var adminClaims = &jwtx.Claims{UserID: "admin-1", Role: "org_admin", TenantID: "tenant-1"}

func TestCreate_TokenReturnedOnceHashStored(t *testing.T) {
	repo := &fakeInvitations{}
	svc := NewService(Deps{Invitations: repo, TTL: time.Hour})

	resp, err := svc.Create(context.Background(), adminClaims, dto.CreateRequest{
		Email: "  New@Acme.TEST ",
		Role:  "sales_rep",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("response must carry the raw token")
	}
	if repo.created.TokenHash == resp.Token {
		t.Fatal("clear token must never reach the repository")
	}
	if repo.created.TokenHash != tokens.SHA256Base64URL(resp.Token) {
		t.Fatal("stored hash must match the returned token")
	}
	if repo.created.Email != "new@acme.test" {
		t.Fatalf("email not normalized: %q", repo.created.Email)
	}
	// Sin tenant en el body cae al tenant del emisor
	if repo.created.TenantID == nil || *repo.created.TenantID != "tenant-1" {
		t.Fatal("tenant must default to the issuer's")
	}
	if repo.created.InvitedBy != "admin-1" {
		t.Fatalf("invited_by = %q", repo.created.InvitedBy)
	}
}

func TestCreate_SuperAdminNotInvitable(t *testing.T) {
	svc := NewService(Deps{Invitations: &fakeInvitations{}, TTL: time.Hour})

	_, err := svc.Create(context.Background(), adminClaims, dto.CreateRequest{
		Email: "boss@acme.test",
		Role:  "super_admin",
	})
	if !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	svc := NewService(Deps{Invitations: &fakeInvitations{}, TTL: time.Hour})

	cases := []dto.CreateRequest{
		{Email: "", Role: "sales_rep"},
		{Email: "not-an-email", Role: "sales_rep"},
		{Email: "a@b.test", Role: "made_up_role"},
		{Email: "a@b.test", Role: ""},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), adminClaims, in); !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrRoleNotAllowed) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestCreate_PendingConflict(t *testing.T) {
	svc := NewService(Deps{Invitations: &fakeInvitations{conflict: true}, TTL: time.Hour})

	_, err := svc.Create(context.Background(), adminClaims, dto.CreateRequest{
		Email: "dup@acme.test",
		Role:  "sales_rep",
	})
	if !errors.Is(err, ErrPendingExists) {
		t.Fatalf("expected ErrPendingExists, got %v", err)
	}
}

func TestList_OrgAdminScopedToTenant(t *testing.T) {
	repo := &fakeInvitations{}
	svc := NewService(Deps{Invitations: repo, TTL: time.Hour})

	if _, err := svc.List(context.Background(), adminClaims, 1, 20); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.gotFilter.TenantID == nil || *repo.gotFilter.TenantID != "tenant-1" {
		t.Fatal("org_admin list must be scoped to own tenant")
	}

	super := &jwtx.Claims{UserID: "root-1", Role: "super_admin"}
	if _, err := svc.List(context.Background(), super, 1, 20); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.gotFilter.TenantID != nil {
		t.Fatal("super_admin list must be unscoped")
	}
}

func TestList_ClampsPagination(t *testing.T) {
	repo := &fakeInvitations{}
	svc := NewService(Deps{Invitations: repo, TTL: time.Hour})

	resp, err := svc.List(context.Background(), adminClaims, -1, 9999)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 100 {
		t.Fatalf("page/pageSize = %d/%d, want 1/100", resp.Page, resp.PageSize)
	}
	if repo.gotFilter.Page != 1 || repo.gotFilter.PageSize != 100 {
		t.Fatalf("repo got %d/%d, want clamped", repo.gotFilter.Page, repo.gotFilter.PageSize)
	}
}

func TestTokenShape(t *testing.T) {
	repo := &fakeInvitations{}
	svc := NewService(Deps{Invitations: repo, TTL: time.Hour})

	resp, err := svc.Create(context.Background(), adminClaims, dto.CreateRequest{
		Email: "x@acme.test", Role: "manager",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if strings.ContainsAny(resp.Token, "+/=") {
		t.Fatalf("token must be url-safe: %q", resp.Token)
	}
}
