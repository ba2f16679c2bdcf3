// Package pg implementa los repositorios del dominio sobre PostgreSQL
// usando pgx/pgxpool.
package pg

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	migrations "github.com/max31337/salesoptimizer-sub001/migrations/postgres"
)

// Config configura la conexión a PostgreSQL.
type Config struct {
	DSN               string
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	HealthCheckPeriod time.Duration
}

// Store agrupa el pool y los repositorios concretos.
type Store struct {
	pool *pgxpool.Pool

	Users       repository.UserRepository
	Tenants     repository.TenantRepository
	Invitations repository.InvitationRepository
	Sessions    repository.SessionRepository
}

// Connect abre el pool, hace ping y construye los repositorios.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.HealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		Users:       &userRepo{pool: pool},
		Tenants:     &tenantRepo{pool: pool},
		Invitations: &invitationRepo{pool: pool},
		Sessions:    &sessionRepo{pool: pool},
	}, nil
}

// Pool expone el pool subyacente (health checks, métricas).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close cierra el pool.
func (s *Store) Close() { s.pool.Close() }

// migrationLockID genera un ID para pg_advisory_lock.
func migrationLockID() int64 {
	h := sha256.Sum256([]byte("salesoptimizer:migrations"))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// migrationConn es lo que el runner necesita de la conexión dedicada.
type migrationConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Migrate ejecuta las migraciones embebidas pendientes bajo advisory
// lock. El lock es de sesión, así que lock, scripts y unlock corren
// sobre una MISMA conexión dedicada del pool. Devuelve cuántos scripts
// se aplicaron.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	log := logger.From(ctx).With(logger.Component("store.pg"), logger.Op("Migrate"))

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("pg: acquire migration conn: %w", err)
	}
	defer conn.Release()

	lockID := migrationLockID()
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
		return 0, fmt.Errorf("pg: acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockID); err != nil {
			log.Warn("failed to release migration lock", logger.Err(err))
		}
	}()

	return applyMigrations(ctx, conn, log)
}

// applyMigrations corre los .sql embebidos pendientes sobre conn. El
// caller ya sostiene el advisory lock en esa sesión.
func applyMigrations(ctx context.Context, conn migrationConn, log *zap.Logger) (int, error) {
	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return 0, fmt.Errorf("pg: ensure schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		return 0, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var applied int
	for _, name := range names {
		var exists bool
		if err := conn.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", name,
		).Scan(&exists); err != nil {
			return applied, err
		}
		if exists {
			continue
		}

		b, err := fs.ReadFile(migrations.FS, migrations.Dir+"/"+name)
		if err != nil {
			return applied, err
		}
		if _, err := conn.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("pg: exec %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx,
			"INSERT INTO schema_migrations (name) VALUES ($1)", name,
		); err != nil {
			return applied, err
		}
		log.Info("migration applied", logger.String("file", name))
		applied++
	}
	return applied, nil
}
