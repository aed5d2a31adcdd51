package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"passvault/internal/app/server/api"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/leakcheck"
	"passvault/internal/domain/notification"
	"passvault/internal/domain/session"
	"passvault/internal/domain/user"
	"passvault/internal/infrastructure/migration"
	"passvault/internal/infrastructure/storage/postgres"
	"passvault/internal/monitor"
	"passvault/internal/tenant"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vault HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mg := migration.New(cfg.DB.Migrations, migration.DefaultEngine)

	storage, err := postgres.New(ctx, cfg.DB.DatabaseURI, mg.Up)
	if err != nil {
		return fmt.Errorf("open default store: %w", err)
	}
	defer storage.Close()

	router := tenant.NewRouter(storage.Pool(), cfg.Tenant.DatabaseName, cfg.Tenant.ProbeTimeout, mg.Up, log)
	defer router.Close()

	userRepo := postgres.NewUserRepository(storage.Pool(), log)
	sessionRepo := postgres.NewSessionRepository(storage.Pool(), log)
	credentialRepo := postgres.NewCredentialRepository(log)
	auditRepo := postgres.NewAuditRepository(storage.Pool(), log)
	notificationRepo := postgres.NewNotificationRepository(storage.Pool(), log)

	userService := user.NewService(userRepo, user.NewPasswordValidator(), router, log)
	sessionService := session.NewService(sessionRepo, log)
	notificationService := notification.NewService(notificationRepo, log)
	auditService := audit.NewService(auditRepo, userRepo, notificationService, audit.DefaultPolicy(), log)
	credentialService := credential.NewService(credentialRepo, userRepo, router, auditService, notificationService, log)
	leakChecker := leakcheck.NewChecker(
		cfg.LeakCheck.RangeServiceURL,
		cfg.LeakCheck.BreachAPIURL,
		cfg.LeakCheck.APIKey,
		cfg.LeakCheck.Timeout,
		log,
	)

	mon := monitor.New(credentialRepo, userRepo, router, leakChecker, notificationService, cfg.Monitor.Interval, log)
	go mon.Run(ctx)

	mux := api.New(api.Deps{
		User:         userService,
		Session:      sessionService,
		Credential:   credentialService,
		Audit:        auditService,
		Notification: notificationService,
		LeakCheck:    leakChecker,
		Log:          log,
	})

	server := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", cfg.Server.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
