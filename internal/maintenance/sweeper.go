// Package maintenance contiene las tareas de limpieza periódica.
package maintenance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// Sweeper purga periódicamente sesiones expiradas (pasado el período de
// gracia) e invitaciones vencidas. Corre como goroutine del proceso api;
// la limpieza nunca ocurre en el camino de un request.
type Sweeper struct {
	Sessions    repository.SessionRepository
	Invitations repository.InvitationRepository

	Interval time.Duration
	Grace    time.Duration
}

// Run ejecuta el loop de limpieza hasta que el contexto se cancele.
// Retorna ctx.Err() al terminar para integrarse con errgroup.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	log := logger.From(ctx).With(logger.Component("maintenance"), logger.Op("sweep"))
	log.Info("sweeper iniciado", logger.Duration(interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper detenido")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx, log)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, log *zap.Logger) {
	// Un sweep lento no debe pisarse con el siguiente tick.
	swCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sessions, err := s.Sessions.DeleteExpired(swCtx, s.Grace)
	if err != nil {
		log.Warn("no se pudieron purgar sesiones expiradas", logger.Err(err))
	}

	invitations, err := s.Invitations.DeleteExpired(swCtx)
	if err != nil {
		log.Warn("no se pudieron purgar invitaciones expiradas", logger.Err(err))
	}

	if sessions > 0 || invitations > 0 {
		log.Info("limpieza completada",
			logger.Int("sessions_deleted", sessions),
			logger.Int("invitations_deleted", invitations),
		)
	}
}
