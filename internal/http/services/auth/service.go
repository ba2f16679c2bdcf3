package auth

import (
	"context"
	"strings"
	"time"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/cache"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	tokens "github.com/max31337/salesoptimizer-sub001/internal/security/token"
)

// Prefijo de las keys de blacklist de access tokens en el cache.
const blacklistPrefix = "bl:jti:"

// Deps contiene las dependencias del servicio de autenticación.
type Deps struct {
	Users       repository.UserRepository
	Sessions    repository.SessionRepository
	Invitations repository.InvitationRepository
	Issuer      *jwtx.Issuer
	Cache       cache.Client

	// Now permite inyectar el reloj en tests. Default: time.Now.
	Now func() time.Time
}

type service struct {
	deps Deps
}

// NewService crea el servicio de autenticación.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) now() time.Time {
	if s.deps.Now != nil {
		return s.deps.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *service) AccessTTL() time.Duration  { return s.deps.Issuer.AccessTTL }
func (s *service) RefreshTTL() time.Duration { return s.deps.Issuer.RefreshTTL }

// Login verifica credenciales y abre una sesión nueva.
func (s *service) Login(ctx context.Context, in dto.LoginRequest, meta DeviceMeta) (*dto.TokenPairResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			// Mismo error que password incorrecto: no filtrar existencia
			audit.Log(ctx, audit.EventLoginFailed, logger.Email(email))
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	if !s.deps.Users.CheckPassword(user.PasswordHash, in.Password) {
		audit.Log(ctx, audit.EventLoginFailed, logger.UserID(user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		audit.Log(ctx, audit.EventLoginFailed, logger.UserID(user.ID), logger.String("reason", "inactive"))
		return nil, ErrUserInactive
	}

	pair, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.EventLogin, logger.UserID(user.ID), logger.ClientIP(meta.IPAddress))
	log.Info("login successful", logger.UserID(user.ID))
	return pair, nil
}

// openSession emite el par de tokens y persiste el registro de sesión.
// Reintenta una vez si el jti del refresh colisiona.
func (s *service) openSession(ctx context.Context, user *repository.User, meta DeviceMeta) (*dto.TokenPairResponse, error) {
	tenantID := ""
	if user.TenantID != nil {
		tenantID = *user.TenantID
	}

	access, _, err := s.deps.Issuer.IssueAccess(user.ID, string(user.Role), tenantID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		refresh, rc, err := s.deps.Issuer.IssueRefresh(user.ID, string(user.Role), tenantID)
		if err != nil {
			return nil, err
		}

		_, err = s.deps.Sessions.Create(ctx, repository.CreateSessionInput{
			UserID:     user.ID,
			TokenHash:  tokens.SHA256Base64URL(refresh),
			JTI:        rc.JTI,
			DeviceInfo: meta.DeviceInfo,
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			ExpiresAt:  rc.ExpiresAt,
		})
		if err != nil {
			if repository.IsConflict(err) {
				// Colisión de jti: reemitir con uno nuevo
				continue
			}
			return nil, err
		}

		return &dto.TokenPairResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    int64(s.deps.Issuer.AccessTTL.Seconds()),
		}, nil
	}
	return nil, repository.ErrConflict
}

// VerifyAccess compone decode + blacklist + usuario activo.
func (s *service) VerifyAccess(ctx context.Context, raw string) (*jwtx.Claims, error) {
	claims, err := s.deps.Issuer.Parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwtx.TokenAccess {
		return nil, jwtx.ErrTokenMalformed
	}

	// Blacklist de jtis revocados. Un error del cache cuenta como fallo
	// de autenticación: nunca dejar pasar un token que no pudimos chequear.
	revoked, err := s.deps.Cache.Exists(ctx, blacklistPrefix+claims.JTI)
	if err != nil {
		logger.From(ctx).Warn("blacklist check failed", logger.Err(err), logger.JTI(claims.JTI))
		return nil, ErrTokenRevoked
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.deps.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	return claims, nil
}

// Refresh rota el refresh token de forma atómica.
func (s *service) Refresh(ctx context.Context, rawRefresh string, meta DeviceMeta) (*dto.TokenPairResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Refresh"),
	)

	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil, ErrMissingFields
	}

	claims, err := s.deps.Issuer.Parse(rawRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.TokenType != jwtx.TokenRefresh {
		return nil, ErrInvalidRefresh
	}

	sess, err := s.deps.Sessions.GetByJTI(ctx, claims.JTI)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// El token presentado debe corresponder al registro persistido
	if sess.TokenHash != tokens.SHA256Base64URL(rawRefresh) {
		return nil, ErrInvalidRefresh
	}

	if sess.Revoked {
		// Reuso de un token ya rotado: posible robo
		audit.Log(ctx, audit.EventRefreshReuse, logger.UserID(sess.UserID), logger.JTI(claims.JTI))
		return nil, ErrRefreshRevoked
	}
	if !sess.Active(s.now()) {
		return nil, ErrInvalidRefresh
	}

	user, err := s.deps.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	// Rotación: el CAS del UPDATE decide el ganador entre concurrentes
	won, err := s.deps.Sessions.RevokeByJTI(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if !won {
		audit.Log(ctx, audit.EventRefreshReuse, logger.UserID(sess.UserID), logger.JTI(claims.JTI))
		return nil, ErrRefreshRevoked
	}

	pair, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.EventRefresh, logger.UserID(user.ID))
	log.Debug("refresh rotated", logger.UserID(user.ID))
	return pair, nil
}

// Logout revoca la sesión actual. Idempotente.
func (s *service) Logout(ctx context.Context, accessClaims *jwtx.Claims, rawRefresh string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Logout"),
	)

	// Revocar la sesión del refresh si vino el token
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh != "" {
		if rc, err := s.deps.Issuer.Parse(rawRefresh); err == nil && rc.TokenType == jwtx.TokenRefresh {
			if _, err := s.deps.Sessions.RevokeByJTI(ctx, rc.JTI); err != nil {
				return err
			}
		}
		// Un refresh malformado no impide el logout del access
	}

	// Blacklist del access por su vida restante
	if accessClaims != nil {
		if err := s.blacklistAccess(ctx, accessClaims); err != nil {
			return err
		}
		audit.Log(ctx, audit.EventLogout, logger.UserID(accessClaims.UserID))
		log.Info("logout", logger.UserID(accessClaims.UserID))
	}
	return nil
}

// LogoutAll revoca todas las sesiones del usuario.
func (s *service) LogoutAll(ctx context.Context, accessClaims *jwtx.Claims) (int, error) {
	n, err := s.deps.Sessions.RevokeAllByUser(ctx, accessClaims.UserID)
	if err != nil {
		return 0, err
	}

	if err := s.blacklistAccess(ctx, accessClaims); err != nil {
		return n, err
	}

	audit.Log(ctx, audit.EventLogoutAll, logger.UserID(accessClaims.UserID), logger.Count(n))
	logger.From(ctx).Info("logout all", logger.UserID(accessClaims.UserID), logger.Count(n))
	return n, nil
}

// blacklistAccess pone el jti del access en la blacklist por su vida
// restante. Un token ya vencido no necesita blacklist.
func (s *service) blacklistAccess(ctx context.Context, claims *jwtx.Claims) error {
	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	return s.deps.Cache.Set(ctx, blacklistPrefix+claims.JTI, "1", remaining)
}
