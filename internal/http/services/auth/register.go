package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	"github.com/max31337/salesoptimizer-sub001/internal/security/password"
	tokens "github.com/max31337/salesoptimizer-sub001/internal/security/token"
)

// Largo mínimo de contraseña aceptado en el registro.
const minPasswordLen = 8

// Register canjea la invitación y crea el usuario. La invitación se
// consume recién cuando el usuario existe: un alta fallida deja el
// token canjeable. De dos registros concurrentes con el mismo token
// solo uno gana, porque ambos apuntan al mismo email único.
func (s *service) Register(ctx context.Context, in dto.RegisterRequest, meta DeviceMeta) (*dto.RegisterResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Register"),
	)

	in.Token = strings.TrimSpace(in.Token)
	if in.Token == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	inv, err := s.deps.Invitations.GetByTokenHash(ctx, tokens.SHA256Base64URL(in.Token))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvitationInvalid
		}
		return nil, err
	}
	if inv.IsUsed {
		return nil, ErrInvitationInvalid
	}
	if !inv.ExpiresAt.After(s.now()) {
		return nil, ErrInvitationInvalid
	}

	hash, err := password.HashDefault(in.Password)
	if err != nil {
		return nil, err
	}

	var username *string
	if u := strings.TrimSpace(in.Username); u != "" {
		username = &u
	}

	user, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		TenantID:     inv.TenantID,
		Email:        inv.Email,
		Username:     username,
		PasswordHash: hash,
		Role:         inv.Role,
		Status:       repository.UserActive,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Consumir la invitación. Un canje concurrente ya habría chocado
	// con el email único, así que un CAS perdido acá no anula el alta.
	if err := s.deps.Invitations.MarkUsed(ctx, inv.ID); err != nil && !errors.Is(err, repository.ErrInvitationUsed) {
		return nil, err
	}

	audit.Log(ctx, audit.EventInvitationRedeemed,
		logger.UserID(user.ID),
		logger.String("invitation_id", inv.ID),
	)
	log.Info("user registered", logger.UserID(user.ID))

	pair, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
