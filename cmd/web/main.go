package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JFernando12/app-interviews-sub000/internal/app"
	"github.com/JFernando12/app-interviews-sub000/internal/auth"
	"github.com/JFernando12/app-interviews-sub000/internal/config"
	"github.com/JFernando12/app-interviews-sub000/internal/logging"
	"github.com/JFernando12/app-interviews-sub000/internal/upload"
	"github.com/JFernando12/app-interviews-sub000/internal/web"
)

// printUsage prints the usage information for the application
func printUsage() {
	fmt.Println("Usage: ./web [OPTIONS]")
	fmt.Println()
	fmt.Println("Configuration is read from the environment and an optional .env file.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Example: STORE_BACKEND=sqlite STORE_DSN=app.db OBJECT_STORE=fs ./web -env .env.local")
}

func main() {
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	flag.Usage = printUsage
	flag.Parse()

	if err := run(*envFile); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := app.NewAWSLoader(cfg.AWSRegion)

	slog.Info("opening store", "backend", cfg.StoreBackend)
	st, err := app.OpenStore(ctx, cfg, loader)
	if err != nil {
		return fmt.Errorf("error creating store: %w", err)
	}
	defer st.Close()

	slog.Info("creating object store gateway", "type", cfg.ObjectStore)
	gateway, direct, err := app.NewGateway(ctx, cfg, loader)
	if err != nil {
		return fmt.Errorf("error creating object store gateway: %w", err)
	}

	publisher, err := app.NewPublisher(ctx, cfg, loader)
	if err != nil {
		return fmt.Errorf("error creating publisher: %w", err)
	}

	providers := app.Providers(cfg)
	if len(providers) == 0 {
		slog.Warn("no sign-in providers configured")
	}
	manager, err := auth.NewManager(st, auth.Options{
		Providers:   providers,
		Secret:      []byte(cfg.SessionSecret),
		SessionTTL:  cfg.SessionTTL,
		FrontendURL: cfg.FrontendURL,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("error creating auth manager: %w", err)
	}

	opts := web.Options{CORSOrigins: cfg.CORSOrigins}
	if direct != nil {
		opts.DirectUploads = direct
	}
	uploads := upload.NewService(st, gateway, publisher, cfg.UploadURLTTL)
	srv := web.NewServer(st, manager, uploads, opts)

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", cfg.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
