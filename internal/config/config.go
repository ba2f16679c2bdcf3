// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns          int    `yaml:"max_conns"`
			MinConns          int    `yaml:"min_conns"`
			MaxConnLifetime   string `yaml:"max_conn_lifetime"`
			HealthCheckPeriod string `yaml:"health_check_period"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // "memory" | "redis"
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Issuer     string `yaml:"issuer"`
		Secret     string `yaml:"secret"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		Cookie struct {
			Domain   string `yaml:"domain"`
			SameSite string `yaml:"samesite"`
			Secure   bool   `yaml:"secure"`
		} `yaml:"cookie"`
		Bootstrap struct {
			// Credenciales del superadmin inicial. Solo se usa si la tabla
			// de usuarios no tiene todavía un super_admin.
			Email    string `yaml:"email"`
			Password string `yaml:"password"`
		} `yaml:"bootstrap"`
	} `yaml:"auth"`

	Invitations struct {
		TTL string `yaml:"ttl"`
	} `yaml:"invitations"`

	Sessions struct {
		// CleanupInterval controla cada cuánto corre el sweep de sesiones
		// expiradas. CleanupGrace es el margen después de expires_at antes
		// de borrar el registro.
		CleanupInterval string `yaml:"cleanup_interval"`
		CleanupGrace    string `yaml:"cleanup_grace"`
	} `yaml:"sessions"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load lee el archivo YAML, aplica defaults y overrides por entorno.
// Si path está vacío o el archivo no existe, parte de una config vacía
// (solo env + defaults).
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "30m"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "salesoptimizer"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "30m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "168h" // 7d
	}
	if c.Invitations.TTL == "" {
		c.Invitations.TTL = "168h" // 7d
	}
	if c.Sessions.CleanupInterval == "" {
		c.Sessions.CleanupInterval = "1h"
	}
	if c.Sessions.CleanupGrace == "" {
		c.Sessions.CleanupGrace = "24h"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	c.applyEnvOverrides()
	return &c, nil
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_PG_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}
	if v, ok := getEnvStr("AUTH_COOKIE_DOMAIN"); ok {
		c.Auth.Cookie.Domain = v
	}
	if v, ok := getEnvStr("AUTH_COOKIE_SAMESITE"); ok {
		c.Auth.Cookie.SameSite = v
	}
	if v, ok := getEnvBool("AUTH_COOKIE_SECURE"); ok {
		c.Auth.Cookie.Secure = v
	}
	if v, ok := getEnvStr("AUTH_BOOTSTRAP_EMAIL"); ok {
		c.Auth.Bootstrap.Email = v
	}
	if v, ok := getEnvStr("AUTH_BOOTSTRAP_PASSWORD"); ok {
		c.Auth.Bootstrap.Password = v
	}
	if v, ok := getEnvStr("INVITATIONS_TTL"); ok {
		c.Invitations.TTL = v
	}
	if v, ok := getEnvStr("SESSIONS_CLEANUP_INTERVAL"); ok {
		c.Sessions.CleanupInterval = v
	}
	if v, ok := getEnvStr("SESSIONS_CLEANUP_GRACE"); ok {
		c.Sessions.CleanupGrace = v
	}
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// En prod el secret JWT es obligatorio por env o YAML, nunca default.
}

// Validate verifica valores críticos de configuración.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("config: jwt.secret is required (set JWT_SECRET)")
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("config: storage.dsn is required (set STORAGE_DSN)")
	}
	if _, err := time.ParseDuration(c.JWT.AccessTTL); err != nil {
		return fmt.Errorf("config: invalid jwt.access_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshTTL); err != nil {
		return fmt.Errorf("config: invalid jwt.refresh_ttl: %w", err)
	}
	return nil
}

// AccessTTL retorna el TTL del access token ya parseado.
func (c *Config) AccessTTL() time.Duration {
	return mustDur(c.JWT.AccessTTL, 30*time.Minute)
}

// RefreshTTL retorna el TTL del refresh token ya parseado.
func (c *Config) RefreshTTL() time.Duration {
	return mustDur(c.JWT.RefreshTTL, 168*time.Hour)
}

// InvitationTTL retorna el TTL de invitaciones ya parseado.
func (c *Config) InvitationTTL() time.Duration {
	return mustDur(c.Invitations.TTL, 168*time.Hour)
}

// CleanupInterval retorna el intervalo del sweep de sesiones.
func (c *Config) CleanupInterval() time.Duration {
	return mustDur(c.Sessions.CleanupInterval, time.Hour)
}

// CleanupGrace retorna el margen antes de borrar sesiones expiradas.
func (c *Config) CleanupGrace() time.Duration {
	return mustDur(c.Sessions.CleanupGrace, 24*time.Hour)
}

// LoginRateWindow retorna la ventana del rate limit de login.
func (c *Config) LoginRateWindow() time.Duration {
	return mustDur(c.Rate.Login.Window, time.Minute)
}

func mustDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
