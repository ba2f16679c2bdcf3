package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
)

// tenantRepo implementa repository.TenantRepository.
type tenantRepo struct {
	pool *pgxpool.Pool
}

const tenantCols = `id, name, slug, status, created_at, updated_at`

func scanTenant(row pgx.Row) (*repository.Tenant, error) {
	var t repository.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, tenantID string) (*repository.Tenant, error) {
	query := `SELECT ` + tenantCols + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(r.pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*repository.Tenant, error) {
	query := `SELECT ` + tenantCols + ` FROM tenants WHERE slug = $1`
	t, err := scanTenant(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, input repository.CreateTenantInput) (*repository.Tenant, error) {
	query := `
		INSERT INTO tenants (name, slug)
		VALUES ($1, $2)
		RETURNING ` + tenantCols

	t, err := scanTenant(r.pool.QueryRow(ctx, query, input.Name, input.Slug))
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", mapError(err))
	}
	return t, nil
}

func (r *tenantRepo) Update(ctx context.Context, tenantID string, input repository.UpdateTenantInput) (*repository.Tenant, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{tenantID}

	if input.Name != nil {
		args = append(args, *input.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if input.Status != nil {
		args = append(args, *input.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(
		`UPDATE tenants SET %s WHERE id = $1 RETURNING `+tenantCols,
		strings.Join(sets, ", "),
	)
	t, err := scanTenant(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update tenant: %w", mapError(err))
	}
	return t, nil
}

func (r *tenantRepo) List(ctx context.Context, filter repository.ListTenantsFilter) ([]repository.Tenant, int, error) {
	page, pageSize := clampPagination(filter.Page, filter.PageSize)

	where := "TRUE"
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = fmt.Sprintf("(name ILIKE $%d OR slug ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT `+tenantCols+`
		FROM tenants WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []repository.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}
	return tenants, total, rows.Err()
}

func (r *tenantRepo) Delete(ctx context.Context, tenantID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
