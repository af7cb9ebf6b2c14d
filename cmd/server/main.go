package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server"
	"github.com/iudanet/communitas/internal/server/jwt"
	"github.com/iudanet/communitas/internal/server/storage/sqlite"
	"github.com/iudanet/communitas/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "communitas.db", "Path to SQLite database")
	accessTTL := flag.Duration("access-ttl", 15*time.Minute, "Access token TTL")
	refreshTTL := flag.Duration("refresh-ttl", 7*24*time.Hour, "Refresh token TTL")
	seed := flag.Bool("seed", false, "Seed demo communities and news on startup")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Секрет не принимается флагом, чтобы не светился в ps
	secret := os.Getenv("COMMUNITAS_JWT_SECRET")
	if secret == "" {
		logger.Error("COMMUNITAS_JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, *dbPath)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	if *seed {
		if err := seedDemoData(ctx, store); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("demo data seeded")
	}

	jwtConfig := jwt.Config{
		Secret:          []byte(secret),
		AccessTokenTTL:  *accessTTL,
		RefreshTokenTTL: *refreshTTL,
	}

	router := server.NewRouter(logger, store, jwtConfig, Version)
	srv := server.New(server.Config{Addr: *addr, Version: Version}, logger, router)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// seedDemoData наполняет пустую БД демо-каталогом
func seedDemoData(ctx context.Context, store *sqlite.Storage) error {
	existing, err := store.ListCommunities(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now().UTC()
	communities := []models.Community{
		{
			Name:        "Go Developers",
			Description: "Everything about the Go programming language",
			Slug:        "go-developers",
			Visibility:  api.VisibilityPublic,
			AccessType:  api.AccessFree,
		},
		{
			Name:        "Engineering Leaders",
			Description: "Private circle for engineering managers",
			Slug:        "engineering-leaders",
			Visibility:  api.VisibilityPublic,
			AccessType:  api.AccessInvitationOnly,
		},
		{
			Name:        "Pro Architects",
			Description: "Paid community with weekly architecture reviews",
			Slug:        "pro-architects",
			Visibility:  api.VisibilityPublic,
			AccessType:  api.AccessPaid,
		},
	}

	for i := range communities {
		c := communities[i]
		c.ID = uuid.New().String()
		c.CreatedAt = now.Add(time.Duration(-i) * time.Hour)
		c.UpdatedAt = c.CreatedAt
		if err := store.CreateCommunity(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed community %s: %w", c.Slug, err)
		}
	}

	news := []models.NewsItem{
		{Title: "Welcome to Communitas", Summary: "The community platform is live."},
		{Title: "New communities every week", Summary: "Browse the catalog and join the ones you like."},
	}
	for i := range news {
		item := news[i]
		item.ID = uuid.New().String()
		item.PublishedAt = now.Add(time.Duration(-i) * time.Hour)
		if err := store.CreateNewsItem(ctx, &item); err != nil {
			return fmt.Errorf("failed to seed news: %w", err)
		}
	}

	return nil
}

func printVersion() {
	fmt.Printf("Communitas Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
