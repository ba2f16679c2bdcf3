package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	initOnce sync.Once
	global   *zap.Logger
)

// Init arma el logger global del proceso a partir de la config. Solo
// la primera llamada tiene efecto; api, migrate y soctl lo invocan una
// vez al arrancar.
func Init(cfg Config) {
	initOnce.Do(func() {
		global = build(cfg)
	})
}

// L devuelve el logger global. Sin Init previo cae a uno de desarrollo
// en nivel info, que es lo que quieren los tests.
func L() *zap.Logger {
	if global == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return global
}

// Named devuelve el logger global con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With agrega campos persistentes, p. ej. tenant_id dentro de un
// service.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync vuelca lo pendiente. Va en defer en los main.
func Sync() error {
	if global != nil {
		return global.Sync()
	}
	return nil
}
