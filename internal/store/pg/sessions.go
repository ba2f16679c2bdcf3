package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
)

// sessionRepo implementa repository.SessionRepository.
type sessionRepo struct {
	pool *pgxpool.Pool
}

const sessionCols = `id, user_id, token_hash, jti, device_info, ip_address, user_agent,
	expires_at, created_at, revoked, revoked_at`

func scanSession(row pgx.Row) (*repository.Session, error) {
	var s repository.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.TokenHash, &s.JTI, &s.DeviceInfo, &s.IPAddress,
		&s.UserAgent, &s.ExpiresAt, &s.CreatedAt, &s.Revoked, &s.RevokedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// clampPagination aplica la política de clamp silencioso:
// page >= 1, 1 <= pageSize <= 100. Nunca error.
func clampPagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// Create inserta un nuevo registro de refresh token.
func (r *sessionRepo) Create(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	query := `
		INSERT INTO sessions (
			user_id, token_hash, jti, device_info, ip_address, user_agent, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + sessionCols

	s, err := scanSession(r.pool.QueryRow(ctx, query,
		input.UserID,
		input.TokenHash,
		input.JTI,
		nullIfEmpty(input.DeviceInfo),
		nullIfEmpty(input.IPAddress),
		nullIfEmpty(input.UserAgent),
		input.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", mapError(err))
	}
	return s, nil
}

// GetByID busca una sesión por su ID de fila.
func (r *sessionRepo) GetByID(ctx context.Context, sessionID string) (*repository.Session, error) {
	query := `SELECT ` + sessionCols + ` FROM sessions WHERE id = $1`
	s, err := scanSession(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

// GetByJTI busca una sesión por su jti.
func (r *sessionRepo) GetByJTI(ctx context.Context, jti string) (*repository.Session, error) {
	query := `SELECT ` + sessionCols + ` FROM sessions WHERE jti = $1`
	s, err := scanSession(r.pool.QueryRow(ctx, query, jti))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

// RevokeByJTI marca la sesión como revocada. El WHERE revoked = FALSE hace
// la operación atómica e idempotente: el segundo caller concurrente no
// afecta filas y recibe false.
func (r *sessionRepo) RevokeByJTI(ctx context.Context, jti string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET revoked = TRUE, revoked_at = NOW()
		WHERE jti = $1 AND revoked = FALSE
	`, jti)
	if err != nil {
		return false, fmt.Errorf("revoke session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RevokeByID es como RevokeByJTI pero por ID de fila.
func (r *sessionRepo) RevokeByID(ctx context.Context, sessionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET revoked = TRUE, revoked_at = NOW()
		WHERE id = $1 AND revoked = FALSE
	`, sessionID)
	if err != nil {
		return false, fmt.Errorf("revoke session by id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RevokeAllByUser revoca todas las sesiones activas de un usuario.
func (r *sessionRepo) RevokeAllByUser(ctx context.Context, userID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET revoked = TRUE, revoked_at = NOW()
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > NOW()
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke all by user: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListByUser retorna sesiones del usuario con paginación, ordenadas por
// created_at DESC.
func (r *sessionRepo) ListByUser(ctx context.Context, userID string, status repository.SessionStatus, page, pageSize int) ([]repository.Session, int, error) {
	page, pageSize = clampPagination(page, pageSize)

	cond := "revoked = FALSE AND expires_at > NOW()"
	if status == repository.SessionStatusRevoked {
		cond = "revoked = TRUE"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM sessions WHERE user_id = $1 AND ` + cond
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	query := `SELECT ` + sessionCols + `
		FROM sessions
		WHERE user_id = $1 AND ` + cond + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []repository.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}

// ListGroupedByUser agrupa sesiones activas por dispositivo o IP. Los
// grupos se ordenan por actividad más reciente; la paginación aplica
// sobre grupos, no sobre sesiones.
func (r *sessionRepo) ListGroupedByUser(ctx context.Context, userID string, dim repository.GroupDimension, page, pageSize int) ([]repository.SessionGroup, int, error) {
	page, pageSize = clampPagination(page, pageSize)

	dimCol := "COALESCE(device_info, 'unknown')"
	if dim == repository.GroupByIP {
		dimCol = "COALESCE(ip_address, 'unknown')"
	}

	const activeCond = "user_id = $1 AND revoked = FALSE AND expires_at > NOW()"

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM sessions WHERE %s", dimCol, activeCond)
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count session groups: %w", err)
	}

	keysQuery := fmt.Sprintf(`
		SELECT %s AS grp, COUNT(*), MAX(created_at) AS last_seen
		FROM sessions
		WHERE %s
		GROUP BY grp
		ORDER BY last_seen DESC
		LIMIT $2 OFFSET $3
	`, dimCol, activeCond)

	rows, err := r.pool.Query(ctx, keysQuery, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list session groups: %w", err)
	}

	type groupHead struct {
		key   string
		count int
	}
	var heads []groupHead
	for rows.Next() {
		var g groupHead
		var lastSeen time.Time
		if err := rows.Scan(&g.key, &g.count, &lastSeen); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan session group: %w", err)
		}
		heads = append(heads, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(heads) == 0 {
		return []repository.SessionGroup{}, total, nil
	}

	keys := make([]string, len(heads))
	for i, h := range heads {
		keys[i] = h.key
	}

	sessQuery := fmt.Sprintf(`
		SELECT `+sessionCols+`
		FROM sessions
		WHERE %s AND %s = ANY($2)
		ORDER BY created_at DESC
	`, activeCond, dimCol)

	srows, err := r.pool.Query(ctx, sessQuery, userID, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("list grouped sessions: %w", err)
	}
	defer srows.Close()

	byKey := make(map[string][]repository.Session, len(heads))
	for srows.Next() {
		s, err := scanSession(srows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		key := "unknown"
		switch {
		case dim == repository.GroupByIP && s.IPAddress != nil:
			key = *s.IPAddress
		case dim != repository.GroupByIP && s.DeviceInfo != nil:
			key = *s.DeviceInfo
		}
		byKey[key] = append(byKey[key], *s)
	}
	if err := srows.Err(); err != nil {
		return nil, 0, err
	}

	groups := make([]repository.SessionGroup, 0, len(heads))
	for _, h := range heads {
		groups = append(groups, repository.SessionGroup{
			Key:      h.key,
			Count:    h.count,
			Sessions: byKey[h.key],
		})
	}
	return groups, total, nil
}

// DeleteExpired elimina sesiones expiradas hace más de grace.
func (r *sessionRepo) DeleteExpired(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-grace)
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
