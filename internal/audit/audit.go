// Package audit emite eventos de auditoría estructurados para operaciones
// sensibles de seguridad (login, revocaciones, bootstrap). Por ahora el sink
// es el logger; a futuro puede cablearse a BD o a un sink externo.
package audit

import (
	"context"

	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	"go.uber.org/zap"
)

// Eventos conocidos.
const (
	EventLogin              = "auth.login"
	EventLoginFailed        = "auth.login_failed"
	EventRefresh            = "auth.refresh"
	EventRefreshReuse       = "auth.refresh_reuse_denied"
	EventLogout             = "auth.logout"
	EventLogoutAll          = "auth.logout_all"
	EventSessionRevoked     = "session.revoked"
	EventUserCreated        = "user.created"
	EventUserDeleted        = "user.deleted"
	EventTenantCreated      = "tenant.created"
	EventInvitationCreated  = "invitation.created"
	EventInvitationRedeemed = "invitation.redeemed"
	EventBootstrapAdmin     = "bootstrap.super_admin"
)

// Log escribe un evento de auditoría con campos estructurados.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+1)
	all = append(all, zap.String("audit_event", event))
	all = append(all, fields...)
	logger.From(ctx).Info("audit", all...)
}
