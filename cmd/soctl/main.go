// Command soctl es la CLI de operación de SalesOptimizer. A diferencia
// del api, trabaja directo contra la base: útil para bootstrap, soporte
// y limpieza sin pasar por el plano HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/max31337/salesoptimizer-sub001/internal/bootstrap"
	"github.com/max31337/salesoptimizer-sub001/internal/config"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/store/pg"
)

func main() {
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:           "soctl",
		Short:         "CLI de operación de SalesOptimizer (acceso directo a la base)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "ruta del archivo de configuración")

	openStore := func(ctx context.Context) (*pg.Store, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		if cfg.Storage.DSN == "" {
			return nil, fmt.Errorf("storage.dsn vacío (setear STORAGE_DSN)")
		}
		return pg.Connect(ctx, pg.Config{DSN: cfg.Storage.DSN})
	}

	// ---- admin ----
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Gestión del superadmin de plataforma",
	}

	var adminEmail, adminPassword string
	adminCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea el superadmin si todavía no existe",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			err = bootstrap.EnsureSuperAdmin(ctx, store.Users, bootstrap.Config{
				Email:    adminEmail,
				Password: adminPassword,
			})
			if err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "email del superadmin")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "password del superadmin (mínimo 10 caracteres)")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)

	// ---- tenant ----
	tenantCmd := &cobra.Command{
		Use:   "tenant",
		Short: "Gestión de tenants",
	}

	var tenantName, tenantSlug string
	tenantCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.Tenants.Create(ctx, repository.CreateTenantInput{
				Name: tenantName,
				Slug: tenantSlug,
			})
			if err != nil {
				return err
			}
			fmt.Printf("id=%s slug=%s\n", t.ID, t.Slug)
			return nil
		},
	}
	tenantCreateCmd.Flags().StringVar(&tenantName, "name", "", "nombre del tenant")
	tenantCreateCmd.Flags().StringVar(&tenantSlug, "slug", "", "slug único del tenant")
	_ = tenantCreateCmd.MarkFlagRequired("name")
	_ = tenantCreateCmd.MarkFlagRequired("slug")

	tenantListCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			tenants, total, err := store.Tenants.List(ctx, repository.ListTenantsFilter{
				Page:     1,
				PageSize: 100,
			})
			if err != nil {
				return err
			}
			for _, t := range tenants {
				fmt.Printf("%s\t%s\t%s\t%s\n", t.ID, t.Slug, t.Name, t.Status)
			}
			fmt.Printf("total=%d\n", total)
			return nil
		},
	}
	tenantCmd.AddCommand(tenantCreateCmd, tenantListCmd)

	// ---- sessions ----
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Gestión de sesiones",
	}

	var revokeUserID string
	sessionsRevokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoca todas las sesiones activas de un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Sessions.RevokeAllByUser(ctx, revokeUserID)
			if err != nil {
				return err
			}
			fmt.Printf("revoked=%d\n", n)
			return nil
		},
	}
	sessionsRevokeCmd.Flags().StringVar(&revokeUserID, "user", "", "ID del usuario")
	_ = sessionsRevokeCmd.MarkFlagRequired("user")

	var purgeGrace time.Duration
	sessionsPurgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Borra sesiones expiradas e invitaciones vencidas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.Sessions.DeleteExpired(ctx, purgeGrace)
			if err != nil {
				return err
			}
			invitations, err := store.Invitations.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("sessions=%d invitations=%d\n", sessions, invitations)
			return nil
		},
	}
	sessionsPurgeCmd.Flags().DurationVar(&purgeGrace, "grace", 24*time.Hour, "margen después de expires_at antes de borrar")
	sessionsCmd.AddCommand(sessionsRevokeCmd, sessionsPurgeCmd)

	root.AddCommand(adminCmd, tenantCmd, sessionsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
