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

	clientapi "github.com/iudanet/communitas/internal/client/api"
	"github.com/iudanet/communitas/internal/client/cache"
	"github.com/iudanet/communitas/internal/client/cli"
	"github.com/iudanet/communitas/internal/client/communities"
	"github.com/iudanet/communitas/internal/client/iocli"
	"github.com/iudanet/communitas/internal/client/session"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Период health-probe для сигнала "восстановление сети"
const healthProbeInterval = 30 * time.Second

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "communitas-client.db", "Path to local session database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Ctrl+C завершает долгоживущие команды (posts --follow)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, err := session.NewBoltStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Error("failed to close session database", "error", err)
		}
	}()

	apiClient := clientapi.NewClient(*serverURL)

	// Внешние триггеры ревалидации: фокус терминала (SIGCONT после fg)
	// и восстановление сети (health-probe)
	focusSignal := cache.NewSignal()
	onlineSignal := cache.NewSignal()
	go watchFocus(ctx, focusSignal)
	go watchOnline(ctx, apiClient, onlineSignal)

	store := cache.NewStore()
	svc := communities.NewService(apiClient, store, logger, cache.Options{
		Triggers: []*cache.Signal{focusSignal, onlineSignal},
	})

	app := cli.New(iocli.NewStdio(), apiClient, sessions, svc, store, logger, *serverURL)

	if err := run(ctx, app, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *cli.Cli, command string, args []string) error {
	switch command {
	case "register":
		return app.RunRegister(ctx)
	case "login":
		return app.RunLogin(ctx)
	case "logout":
		return app.RunLogout(ctx)
	case "status":
		return app.RunStatus(ctx)
	case "communities":
		return app.RunCommunities(ctx)
	case "show":
		if len(args) == 0 {
			return fmt.Errorf("usage: communitas show <slug>")
		}
		return app.RunShow(ctx, args[0])
	case "join":
		if len(args) == 0 {
			return fmt.Errorf("usage: communitas join <slug>")
		}
		return app.RunJoin(ctx, args[0])
	case "posts":
		if len(args) == 0 {
			return fmt.Errorf("usage: communitas posts <slug> [--follow]")
		}
		follow := len(args) > 1 && args[1] == "--follow"
		return app.RunPosts(ctx, args[0], follow)
	case "news":
		return app.RunNews(ctx)
	default:
		cli.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// watchFocus дергает сигнал фокуса, когда процесс возвращается на
// передний план (SIGCONT после Ctrl+Z / fg)
func watchFocus(ctx context.Context, sig *cache.Signal) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGCONT)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			sig.Notify()
		}
	}
}

// watchOnline опрашивает health endpoint и дергает сигнал при переходе
// offline -> online
func watchOnline(ctx context.Context, apiClient *clientapi.Client, sig *cache.Signal) {
	ticker := time.NewTicker(healthProbeInterval)
	defer ticker.Stop()

	online := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := apiClient.Health(ctx)
			if err == nil && !online {
				sig.Notify()
			}
			online = err == nil
		}
	}
}

func printVersion() {
	fmt.Printf("Communitas Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
