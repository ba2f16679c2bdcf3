package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/user"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

type fakeUsers struct {
	byID      map[string]*repository.User
	gotFilter repository.ListUsersFilter
	updated   *repository.UpdateUserInput
	deletedID string
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*repository.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Create(context.Context, repository.CreateUserInput) (*repository.User, error) {
	return nil, repository.ErrConflict
}

func (f *fakeUsers) Update(_ context.Context, id string, in repository.UpdateUserInput) (*repository.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.updated = &in
	cp := *u
	if in.Role != nil {
		cp.Role = *in.Role
	}
	if in.Status != nil {
		cp.Status = *in.Status
	}
	return &cp, nil
}

func (f *fakeUsers) List(_ context.Context, filter repository.ListUsersFilter) ([]repository.User, int, error) {
	f.gotFilter = filter
	return nil, 0, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	f.deletedID = id
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(context.Context, string, string) error { return nil }
func (f *fakeUsers) CheckPassword(string, string) bool                        { return false }

type fakeSessions struct {
	revokedUser string
	revokedN    int
}

func (f *fakeSessions) Create(context.Context, repository.CreateSessionInput) (*repository.Session, error) {
	return nil, repository.ErrConflict
}
func (f *fakeSessions) GetByID(context.Context, string) (*repository.Session, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeSessions) GetByJTI(context.Context, string) (*repository.Session, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeSessions) RevokeByJTI(context.Context, string) (bool, error) { return false, nil }
func (f *fakeSessions) RevokeByID(context.Context, string) (bool, error)  { return false, nil }
func (f *fakeSessions) RevokeAllByUser(_ context.Context, userID string) (int, error) {
	f.revokedUser = userID
	f.revokedN = 2
	return 2, nil
}
func (f *fakeSessions) ListByUser(context.Context, string, repository.SessionStatus, int, int) ([]repository.Session, int, error) {
	return nil, 0, nil
}
func (f *fakeSessions) ListGroupedByUser(context.Context, string, repository.GroupDimension, int, int) ([]repository.SessionGroup, int, error) {
	return nil, 0, nil
}
func (f *fakeSessions) DeleteExpired(context.Context, time.Duration) (int, error) { return 0, nil }

func ptr[T any](v T) *T { return &v }

func fixtureUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*repository.User{
		"u-acme": {ID: "u-acme", TenantID: ptr("tenant-acme"), Email: "a@acme.test", Role: repository.RoleSalesRep, Status: repository.UserActive},
		"u-beta": {ID: "u-beta", TenantID: ptr("tenant-beta"), Email: "b@beta.test", Role: repository.RoleSalesRep, Status: repository.UserActive},
		"u-root": {ID: "u-root", Email: "root@platform.test", Role: repository.RoleSuperAdmin, Status: repository.UserActive},
	}}
}

var (
	acmeAdmin  = &jwtx.Claims{UserID: "admin-acme", Role: "org_admin", TenantID: "tenant-acme"}
	superAdmin = &jwtx.Claims{UserID: "u-root", Role: "super_admin"}
)

func TestGet_TenantScoping(t *testing.T) {
	svc := NewService(Deps{Users: fixtureUsers(), Sessions: &fakeSessions{}})

	if _, err := svc.Get(context.Background(), acmeAdmin, "u-acme"); err != nil {
		t.Fatalf("same tenant: %v", err)
	}

	// Usuario de otro tenant: misma respuesta que inexistente
	_, errForeign := svc.Get(context.Background(), acmeAdmin, "u-beta")
	_, errMissing := svc.Get(context.Background(), acmeAdmin, "u-ghost")
	if !errors.Is(errForeign, ErrUserMissing) || !errors.Is(errMissing, ErrUserMissing) {
		t.Fatalf("foreign/missing: %v / %v", errForeign, errMissing)
	}

	// super_admin ve todo
	if _, err := svc.Get(context.Background(), superAdmin, "u-beta"); err != nil {
		t.Fatalf("super_admin: %v", err)
	}
}

func TestGet_SelfAlwaysVisible(t *testing.T) {
	users := fixtureUsers()
	svc := NewService(Deps{Users: users, Sessions: &fakeSessions{}})

	// El propio usuario se puede leer aunque el scoping no aplique
	self := &jwtx.Claims{UserID: "u-root", Role: "super_admin"}
	if _, err := svc.Get(context.Background(), self, "u-root"); err != nil {
		t.Fatalf("self: %v", err)
	}
}

func TestList_ScopedAndClamped(t *testing.T) {
	users := fixtureUsers()
	svc := NewService(Deps{Users: users, Sessions: &fakeSessions{}})

	resp, err := svc.List(context.Background(), acmeAdmin, 0, 500, " smith ")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 100 {
		t.Fatalf("page/pageSize = %d/%d", resp.Page, resp.PageSize)
	}
	if users.gotFilter.TenantID == nil || *users.gotFilter.TenantID != "tenant-acme" {
		t.Fatal("org_admin list must be tenant-scoped")
	}
	if users.gotFilter.Search != "smith" {
		t.Fatalf("search = %q", users.gotFilter.Search)
	}

	// super_admin sin tenant lista todo
	if _, err := svc.List(context.Background(), superAdmin, 1, 20, ""); err != nil {
		t.Fatalf("super list: %v", err)
	}
	if users.gotFilter.TenantID != nil {
		t.Fatal("super_admin list must be unscoped")
	}
}

func TestList_TenantlessNonAdminForbidden(t *testing.T) {
	svc := NewService(Deps{Users: fixtureUsers(), Sessions: &fakeSessions{}})

	orphan := &jwtx.Claims{UserID: "x", Role: "org_admin"}
	if _, err := svc.List(context.Background(), orphan, 1, 20, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdate_PromotionToSuperAdminRejected(t *testing.T) {
	svc := NewService(Deps{Users: fixtureUsers(), Sessions: &fakeSessions{}})

	_, err := svc.Update(context.Background(), superAdmin, "u-acme", dto.UpdateRequest{
		Role: ptr("super_admin"),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdate_InvalidRoleOrStatus(t *testing.T) {
	svc := NewService(Deps{Users: fixtureUsers(), Sessions: &fakeSessions{}})

	if _, err := svc.Update(context.Background(), superAdmin, "u-acme", dto.UpdateRequest{
		Role: ptr("warlord"),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad role: %v", err)
	}
	if _, err := svc.Update(context.Background(), superAdmin, "u-acme", dto.UpdateRequest{
		Status: ptr("frozen"),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status: %v", err)
	}
}

func TestUpdate_DeactivationRevokesSessions(t *testing.T) {
	sessions := &fakeSessions{}
	svc := NewService(Deps{Users: fixtureUsers(), Sessions: sessions})

	resp, err := svc.Update(context.Background(), acmeAdmin, "u-acme", dto.UpdateRequest{
		Status: ptr("inactive"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Status != "inactive" {
		t.Fatalf("status = %q", resp.Status)
	}
	if sessions.revokedUser != "u-acme" {
		t.Fatal("deactivation must revoke the user's sessions")
	}
}

func TestDelete_SuperAdminProtected(t *testing.T) {
	users := fixtureUsers()
	svc := NewService(Deps{Users: users, Sessions: &fakeSessions{}})

	if err := svc.Delete(context.Background(), superAdmin, "u-root"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("deleting the super_admin must be forbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), superAdmin, "u-acme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if users.deletedID != "u-acme" {
		t.Fatalf("deleted = %q", users.deletedID)
	}
}

func TestDelete_OutOfScopeLooksMissing(t *testing.T) {
	svc := NewService(Deps{Users: fixtureUsers(), Sessions: &fakeSessions{}})

	if err := svc.Delete(context.Background(), acmeAdmin, "u-beta"); !errors.Is(err, ErrUserMissing) {
		t.Fatalf("expected ErrUserMissing, got %v", err)
	}
}
