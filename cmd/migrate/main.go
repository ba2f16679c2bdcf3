// Command migrate aplica las migraciones embebidas contra PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/max31337/salesoptimizer-sub001/internal/config"
	"github.com/max31337/salesoptimizer-sub001/internal/store/pg"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "ruta del archivo de configuración")
		timeout    = flag.Duration("timeout", 2*time.Minute, "timeout total de la corrida")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.Storage.DSN == "" {
		log.Fatal("storage.dsn vacío (setear STORAGE_DSN)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := pg.Connect(ctx, pg.Config{DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatalf("pg connect: %v", err)
	}
	defer store.Close()

	applied, err := store.Migrate(ctx)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if applied == 0 {
		fmt.Println("Nada que aplicar. Schema al día.")
		os.Exit(0)
	}
	fmt.Printf("Aplicadas %d migraciones.\n", applied)
}
