package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
)

// invitationRepo implementa repository.InvitationRepository.
type invitationRepo struct {
	pool *pgxpool.Pool
}

const invitationCols = `id, email, role, token_hash, invited_by, organization_name,
	tenant_id, expires_at, is_used, used_at, created_at`

func scanInvitation(row pgx.Row) (*repository.Invitation, error) {
	var i repository.Invitation
	err := row.Scan(
		&i.ID, &i.Email, &i.Role, &i.TokenHash, &i.InvitedBy, &i.OrganizationName,
		&i.TenantID, &i.ExpiresAt, &i.IsUsed, &i.UsedAt, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create inserta una invitación. El índice parcial invitations_pending_email
// rechaza un segundo pending para el mismo email.
func (r *invitationRepo) Create(ctx context.Context, input repository.CreateInvitationInput) (*repository.Invitation, error) {
	query := `
		INSERT INTO invitations (
			email, role, token_hash, invited_by, organization_name, tenant_id, expires_at
		) VALUES (LOWER($1), $2, $3, $4, $5, $6, NOW() + $7)
		RETURNING ` + invitationCols

	i, err := scanInvitation(r.pool.QueryRow(ctx, query,
		input.Email,
		input.Role,
		input.TokenHash,
		input.InvitedBy,
		input.OrganizationName,
		input.TenantID,
		input.TTL,
	))
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", mapError(err))
	}
	return i, nil
}

func (r *invitationRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*repository.Invitation, error) {
	query := `SELECT ` + invitationCols + ` FROM invitations WHERE token_hash = $1`
	i, err := scanInvitation(r.pool.QueryRow(ctx, query, tokenHash))
	if err != nil {
		return nil, mapError(err)
	}
	return i, nil
}

// MarkUsed consume la invitación. El WHERE is_used = FALSE hace el canje
// atómico: de dos registros concurrentes con el mismo token, solo uno gana.
func (r *invitationRepo) MarkUsed(ctx context.Context, invitationID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invitations
		SET is_used = TRUE, used_at = NOW()
		WHERE id = $1 AND is_used = FALSE
	`, invitationID)
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrInvitationUsed
	}
	return nil
}

func (r *invitationRepo) List(ctx context.Context, filter repository.ListInvitationsFilter) ([]repository.Invitation, int, error) {
	page, pageSize := clampPagination(filter.Page, filter.PageSize)

	conds := []string{"TRUE"}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		conds = append(conds, fmt.Sprintf("tenant_id = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invitations WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invitations: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT `+invitationCols+`
		FROM invitations WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []repository.Invitation
	for rows.Next() {
		i, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *i)
	}
	return invitations, total, rows.Err()
}

// DeleteExpired purga invitaciones vencidas sin canjear.
func (r *invitationRepo) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM invitations WHERE is_used = FALSE AND expires_at < NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("delete expired invitations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
