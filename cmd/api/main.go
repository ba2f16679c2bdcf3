// Command api arranca el servidor HTTP de SalesOptimizer.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/max31337/salesoptimizer-sub001/internal/bootstrap"
	"github.com/max31337/salesoptimizer-sub001/internal/cache"
	"github.com/max31337/salesoptimizer-sub001/internal/config"
	httpx "github.com/max31337/salesoptimizer-sub001/internal/http"
	authctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/auth"
	healthctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/health"
	invitationctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/invitation"
	sessionctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/session"
	tenantctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/tenant"
	userctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/user"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/router"
	authsvc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
	invitationsvc "github.com/max31337/salesoptimizer-sub001/internal/http/services/invitation"
	sessionsvc "github.com/max31337/salesoptimizer-sub001/internal/http/services/session"
	tenantsvc "github.com/max31337/salesoptimizer-sub001/internal/http/services/tenant"
	usersvc "github.com/max31337/salesoptimizer-sub001/internal/http/services/user"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
	"github.com/max31337/salesoptimizer-sub001/internal/maintenance"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	"github.com/max31337/salesoptimizer-sub001/internal/rate"
	"github.com/max31337/salesoptimizer-sub001/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "config.yaml", "ruta del archivo de configuración")
	flag.Parse()

	// .env es opcional; las variables ya exportadas tienen precedencia.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.L().Fatal("no se pudo cargar la configuración", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "salesoptimizer-api",
	})
	defer func() { _ = logger.Sync() }()

	log := logger.With(logger.Component("api"))

	if err := cfg.Validate(); err != nil {
		log.Fatal("configuración inválida", logger.Err(err))
	}

	if err := run(cfg); err != nil &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("el servidor terminó con error", logger.Err(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.With(logger.Component("api"))
	ctx = logger.ToContext(ctx, log)

	// ---- Storage ----
	store, err := pg.Connect(ctx, pg.Config{
		DSN:               cfg.Storage.DSN,
		MaxConns:          cfg.Storage.Postgres.MaxConns,
		MinConns:          cfg.Storage.Postgres.MinConns,
		MaxConnLifetime:   parseDur(cfg.Storage.Postgres.MaxConnLifetime),
		HealthCheckPeriod: parseDur(cfg.Storage.Postgres.HealthCheckPeriod),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	applied, err := store.Migrate(ctx)
	if err != nil {
		return err
	}
	if applied > 0 {
		log.Info("migraciones aplicadas", logger.Count(applied))
	}

	// ---- Cache ----
	cacheClient, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: parseDur(cfg.Cache.Memory.DefaultTTL),
	})
	if err != nil {
		return err
	}
	defer func() { _ = cacheClient.Close() }()

	// ---- Superadmin inicial ----
	if err := bootstrap.EnsureSuperAdmin(ctx, store.Users, bootstrap.Config{
		Email:    cfg.Auth.Bootstrap.Email,
		Password: cfg.Auth.Bootstrap.Password,
	}); err != nil {
		return err
	}

	// ---- Tokens ----
	issuer := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret))
	issuer.AccessTTL = cfg.AccessTTL()
	issuer.RefreshTTL = cfg.RefreshTTL()

	// ---- Servicios ----
	auth := authsvc.NewService(authsvc.Deps{
		Users:       store.Users,
		Sessions:    store.Sessions,
		Invitations: store.Invitations,
		Issuer:      issuer,
		Cache:       cacheClient,
	})
	sessions := sessionsvc.NewService(sessionsvc.Deps{Sessions: store.Sessions})
	tenants := tenantsvc.NewService(tenantsvc.Deps{Tenants: store.Tenants})
	invitations := invitationsvc.NewService(invitationsvc.Deps{
		Invitations: store.Invitations,
		TTL:         cfg.InvitationTTL(),
	})
	users := usersvc.NewService(usersvc.Deps{
		Users:    store.Users,
		Sessions: store.Sessions,
	})

	// ---- Rate limiting de login ----
	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled {
		loginLimiter = buildLoginLimiter(cfg, cacheClient)
	}

	// ---- Métricas ----
	metricsHandler, err := httpx.RegisterMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	// ---- HTTP ----
	cookies := helpers.CookieSettings{
		Domain:   cfg.Auth.Cookie.Domain,
		SameSite: cfg.Auth.Cookie.SameSite,
		Secure:   cfg.Auth.Cookie.Secure,
	}

	handler := router.New(router.Deps{
		Auth: authctrl.New(authctrl.Deps{
			Auth:    auth,
			Users:   store.Users,
			Cookies: cookies,
		}),
		Sessions:     sessionctrl.NewSessionsController(sessions),
		Tenants:      tenantctrl.NewTenantsController(tenants),
		Invitations:  invitationctrl.NewInvitationsController(invitations),
		Users:        userctrl.NewUsersController(users),
		Health:       healthctrl.NewHealthController(store, cacheClient),
		Verifier:     auth,
		LoginLimiter: loginLimiter,
		Metrics:      metricsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  parseDur(cfg.Server.ReadTimeout),
		WriteTimeout: parseDur(cfg.Server.WriteTimeout),
	}

	sweeper := &maintenance.Sweeper{
		Sessions:    store.Sessions,
		Invitations: store.Invitations,
		Interval:    cfg.CleanupInterval(),
		Grace:       cfg.CleanupGrace(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("servidor escuchando", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := sweeper.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), parseDur(cfg.Server.ShutdownTimeout))
		defer cancel()
		log.Info("apagando servidor")
		return srv.Shutdown(shCtx)
	})

	return g.Wait()
}

// buildLoginLimiter elige el backend del limiter: redis cuando el cache
// corre sobre redis (contadores compartidos entre instancias), memoria
// en cualquier otro caso.
func buildLoginLimiter(cfg *config.Config, c cache.Client) rate.Limiter {
	if raw, ok := c.(interface{ Raw() *redis.Client }); ok {
		return rate.NewRedisLimiter(raw.Raw(), "rate:login", cfg.Rate.Login.Limit, cfg.LoginRateWindow())
	}
	return rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.LoginRateWindow())
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
