package bootstrap

import (
	"context"
	"testing"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/security/password"
)

type fakeUsers struct {
	existing  *repository.User
	created   *repository.CreateUserInput
	createErr error
}

func (f *fakeUsers) GetByID(context.Context, string) (*repository.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	if f.existing != nil && f.existing.Email == email {
		return f.existing, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &in
	return &repository.User{ID: "admin-1", Email: in.Email, Role: in.Role, Status: in.Status}, nil
}

func (f *fakeUsers) Update(context.Context, string, repository.UpdateUserInput) (*repository.User, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeUsers) List(context.Context, repository.ListUsersFilter) ([]repository.User, int, error) {
	return nil, 0, nil
}
func (f *fakeUsers) Delete(context.Context, string) error                     { return repository.ErrNotFound }
func (f *fakeUsers) UpdatePasswordHash(context.Context, string, string) error { return nil }
func (f *fakeUsers) CheckPassword(hash, pw string) bool                       { return password.Verify(pw, hash) }

func TestEnsureSuperAdmin_SkipsWithoutCredentials(t *testing.T) {
	users := &fakeUsers{}
	if err := EnsureSuperAdmin(context.Background(), users, Config{}); err != nil {
		t.Fatalf("empty config must be a silent no-op: %v", err)
	}
	if users.created != nil {
		t.Fatal("nothing must be created")
	}
}

func TestEnsureSuperAdmin_CreatesAdmin(t *testing.T) {
	users := &fakeUsers{}
	err := EnsureSuperAdmin(context.Background(), users, Config{
		Email:    "Root@Platform.test",
		Password: "very-strong-password",
	})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if users.created == nil {
		t.Fatal("admin must be created")
	}
	if users.created.Email != "root@platform.test" {
		t.Fatalf("email not normalized: %q", users.created.Email)
	}
	if users.created.Role != repository.RoleSuperAdmin || users.created.Status != repository.UserActive {
		t.Fatalf("role/status: %q/%q", users.created.Role, users.created.Status)
	}
	if users.created.TenantID != nil {
		t.Fatal("super admin must be a platform user (no tenant)")
	}
	if !password.Verify("very-strong-password", users.created.PasswordHash) {
		t.Fatal("stored hash must verify the configured password")
	}
}

func TestEnsureSuperAdmin_IdempotentWhenExists(t *testing.T) {
	users := &fakeUsers{existing: &repository.User{ID: "admin-1", Email: "root@platform.test"}}
	err := EnsureSuperAdmin(context.Background(), users, Config{
		Email:    "root@platform.test",
		Password: "very-strong-password",
	})
	if err != nil {
		t.Fatalf("existing admin must be a no-op: %v", err)
	}
	if users.created != nil {
		t.Fatal("must not create a second admin")
	}
}

func TestEnsureSuperAdmin_ToleratesLostRace(t *testing.T) {
	users := &fakeUsers{createErr: repository.ErrSuperAdminExists}
	err := EnsureSuperAdmin(context.Background(), users, Config{
		Email:    "root@platform.test",
		Password: "very-strong-password",
	})
	if err != nil {
		t.Fatalf("losing the bootstrap race must not be an error: %v", err)
	}
}

func TestEnsureSuperAdmin_RejectsWeakConfig(t *testing.T) {
	users := &fakeUsers{}
	if err := EnsureSuperAdmin(context.Background(), users, Config{
		Email: "not-an-email", Password: "very-strong-password",
	}); err == nil {
		t.Fatal("invalid email must fail")
	}
	if err := EnsureSuperAdmin(context.Background(), users, Config{
		Email: "root@platform.test", Password: "short",
	}); err == nil {
		t.Fatal("short password must fail")
	}
}
