// Package bootstrap crea el super administrador inicial del sistema.
// El invariante de unicidad lo garantiza la capa de persistencia: si dos
// instancias arrancan a la vez, el índice parcial deja ganar a una sola.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	"github.com/max31337/salesoptimizer-sub001/internal/security/password"
)

// Config contiene las credenciales del super admin inicial.
type Config struct {
	Email    string
	Password string
}

// EnsureSuperAdmin crea el super_admin si no existe todavía.
// Idempotente: si ya hay uno (este u otro proceso lo creó), no hace nada.
func EnsureSuperAdmin(ctx context.Context, users repository.UserRepository, cfg Config) error {
	log := logger.From(ctx).With(logger.Component("bootstrap"), logger.Op("EnsureSuperAdmin"))

	email := strings.TrimSpace(strings.ToLower(cfg.Email))
	if email == "" || cfg.Password == "" {
		log.Debug("bootstrap credentials not configured, skipping")
		return nil
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("bootstrap: invalid admin email %q", email)
	}
	if len(cfg.Password) < 10 {
		return errors.New("bootstrap: admin password must be at least 10 characters")
	}

	// Si el email ya existe no tocamos nada
	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Debug("bootstrap user already exists", logger.Email(email))
		return nil
	} else if !repository.IsNotFound(err) {
		return fmt.Errorf("bootstrap: check existing user: %w", err)
	}

	hash, err := password.HashDefault(cfg.Password)
	if err != nil {
		return fmt.Errorf("bootstrap: hash password: %w", err)
	}

	user, err := users.Create(ctx, repository.CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Role:         repository.RoleSuperAdmin,
		Status:       repository.UserActive,
	})
	if err != nil {
		// Otro proceso ganó la carrera: el índice parcial rechazó al segundo
		if errors.Is(err, repository.ErrSuperAdminExists) {
			log.Info("super admin already bootstrapped elsewhere")
			return nil
		}
		return fmt.Errorf("bootstrap: create super admin: %w", err)
	}

	audit.Log(ctx, audit.EventBootstrapAdmin, logger.UserID(user.ID), logger.Email(email))
	log.Info("super admin created", logger.UserID(user.ID))
	return nil
}
