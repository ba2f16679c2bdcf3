package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/security/password"
)

// userRepo implementa repository.UserRepository.
type userRepo struct {
	pool *pgxpool.Pool
}

const userCols = `id, tenant_id, email, username, password_hash, role, status,
	email_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.Status, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID busca un usuario por ID.
func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// GetByEmail busca un usuario por email, sin distinguir mayúsculas.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// Create inserta un usuario. El índice parcial users_single_super_admin
// garantiza a nivel de BD que no haya un segundo super_admin.
func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	query := `
		INSERT INTO users (tenant_id, email, username, password_hash, role, status)
		VALUES ($1, LOWER($2), $3, $4, $5, $6)
		RETURNING ` + userCols

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		input.TenantID,
		input.Email,
		input.Username,
		input.PasswordHash,
		input.Role,
		input.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", mapError(err))
	}
	return u, nil
}

// Update actualiza los campos no-nil del input.
func (r *userRepo) Update(ctx context.Context, userID string, input repository.UpdateUserInput) (*repository.User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{userID}

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if input.Username != nil {
		add("username", *input.Username)
	}
	if input.Role != nil {
		add("role", *input.Role)
	}
	if input.Status != nil {
		add("status", *input.Status)
	}
	if input.EmailVerified != nil {
		add("email_verified", *input.EmailVerified)
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $1 RETURNING `+userCols,
		strings.Join(sets, ", "),
	)
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update user: %w", mapError(err))
	}
	return u, nil
}

// List lista usuarios filtrando por tenant y búsqueda por email/username.
func (r *userRepo) List(ctx context.Context, filter repository.ListUsersFilter) ([]repository.User, int, error) {
	page, pageSize := clampPagination(filter.Page, filter.PageSize)

	conds := []string{"TRUE"}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		conds = append(conds, fmt.Sprintf("tenant_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(email ILIKE $%d OR username ILIKE $%d)", len(args), len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT `+userCols+`
		FROM users WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []repository.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// Delete elimina un usuario. Las sesiones e invitaciones asociadas caen
// por ON DELETE CASCADE.
func (r *userRepo) Delete(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePasswordHash reemplaza el hash almacenado.
func (r *userRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, userID, newHash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CheckPassword compara en tiempo constante, sin tocar la BD.
func (r *userRepo) CheckPassword(hash, pw string) bool {
	return password.Verify(pw, hash)
}
