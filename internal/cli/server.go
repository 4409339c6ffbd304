package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/config"
	"github.com/D2D99/talent-by-design-sub001/internal/infra/memory"
	infrapg "github.com/D2D99/talent-by-design-sub001/internal/infra/postgres"
	infraredis "github.com/D2D99/talent-by-design-sub001/internal/infra/redis"
	"github.com/D2D99/talent-by-design-sub001/internal/remote"
	transport "github.com/D2D99/talent-by-design-sub001/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the gateway.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the admin gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	sessionTTL := config.Duration(cfg.Auth.SessionTTL, 24*time.Hour)
	remoteTimeout := config.Duration(cfg.Remote.Timeout, 15*time.Second)
	client := remote.NewClient(cfg.Remote.BaseURL, remoteTimeout)

	var prefs app.PrefsRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		prefs = infraredis.NewPrefsStore(redisClient)
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		prefs = memory.NewPrefsStore()
		sessions = memory.NewSessionStore(sessionTTL)
	}

	var audit transport.AuditRecorder
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		audit = infrapg.NewAuditLog(pool)
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = "qb-admin-dev-secret"
	}

	catalog := app.NewCatalog(client)
	events := transport.NewEventsHub()
	editor := app.NewEditor(client, catalog, events)
	filters := app.NewFilterManager(prefs)
	auth := app.NewAuthService(client, sessions)

	// Warm the catalog; the dashboard works on stale or empty data if the
	// remote API is down.
	if err := catalog.Refresh(ctx); err != nil {
		log.Printf("initial catalog fetch failed: %v", err)
	}

	handler := transport.NewHandler(auth, filters, catalog, editor, audit, events, []byte(secret), sessionTTL)

	e := echo.New()
	e.HideBanner = true
	handler.Register(e)

	go func() {
		log.Printf("starting admin gateway on :%s", finalPort)
		if err := e.Start(":" + finalPort); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
