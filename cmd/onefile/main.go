package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"onefile/internal/core/app"
	"onefile/internal/core/config"
	"onefile/internal/core/errors"
	"onefile/internal/data/history"
	"onefile/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./onefile.toml", "Path to config file")
	workspace  = flag.String("workspace", "", "Workspace root (overrides config)")
	rootName   = flag.String("root", "", "Fully-qualified root class (overrides config)")
	output     = flag.String("out", "", "Artifact output path (overrides config)")
	policy     = flag.String("policy", "", "Closure policy: wide or narrow (overrides config)")
	watch      = flag.Bool("watch", false, "Stay running and rebundle on source changes")
	listRuns   = flag.Int("history", 0, "Print the last N recorded runs and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

// Exit codes let scripts tell a missing class apart from a missing namespace.
const (
	exitOK               = 0
	exitFailure          = 1
	exitRootNotFound     = 2
	exitNamespaceMissing = 3
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("onefile v%s\n", VERSION)
		os.Exit(exitOK)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./onefile.toml" {
			cfg, err = config.Load("./onefile.example.toml")
		}
		if err != nil {
			if os.IsNotExist(err) {
				cfg = config.Default()
			} else {
				slog.Error("failed to load config", "error", err)
				os.Exit(exitFailure)
			}
		}
	}

	applyFlagOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(exitFailure)
	}

	if strings.TrimSpace(cfg.Root) == "" {
		fmt.Fprintln(os.Stderr, "a root class is required: onefile -root <namespace.Class>")
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(exitFailure)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("trace shutdown failed", "error", err)
		}
	}()

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(exitFailure)
	}
	defer a.Close()

	if *listRuns > 0 {
		runs, err := a.RecentRuns(*listRuns)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(exitFailure)
		}
		fmt.Print(formatRuns(runs))
		os.Exit(exitOK)
	}

	if *watch {
		if cfg.Observability.MetricsAddr != "" {
			srv := observability.StartMetricsServer(cfg.Observability.MetricsAddr)
			defer observability.StopMetricsServer(srv)
		}

		if err := a.WatchAndRebundle(ctx, cfg.Root); err != nil && ctx.Err() == nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(exitCodeFor(err))
		}
		os.Exit(exitOK)
	}

	if _, err := a.RunOnce(ctx, cfg.Root); err != nil {
		slog.Error("bundling failed", "error", err)
		os.Exit(exitCodeFor(err))
	}
}

func applyFlagOverrides(cfg *config.Config) {
	if *workspace != "" {
		cfg.Workspace = *workspace
	}
	if *rootName != "" {
		cfg.Root = *rootName
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *policy != "" {
		cfg.Closure.Policy = *policy
	}
	if flag.NArg() > 0 && cfg.Root == "" {
		cfg.Root = flag.Arg(0)
	}
	if !filepath.IsAbs(cfg.Workspace) {
		cwd, err := os.Getwd()
		if err == nil {
			cfg.Workspace = filepath.Join(cwd, cfg.Workspace)
		}
	}
}

func exitCodeFor(err error) int {
	switch {
	case errors.IsCode(err, errors.CodeRootNotFound):
		return exitRootNotFound
	case errors.IsCode(err, errors.CodeNamespaceMissing):
		return exitNamespaceMissing
	default:
		return exitFailure
	}
}

func formatRuns(runs []history.Run) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Recent runs (%d)\n", len(runs)))
	b.WriteString("================\n")
	for _, run := range runs {
		b.WriteString(fmt.Sprintf("%s  %s\n", run.Timestamp.Format("2006-01-02 15:04:05"), run.Root))
		b.WriteString(fmt.Sprintf("  policy=%s units=%d namespaces=%d diagnostics=%d duration=%s\n",
			run.Policy, run.UnitCount, run.NamespaceCount, run.DiagnosticCount, run.Duration))
		b.WriteString(fmt.Sprintf("  artifact=%s sha256=%s\n", run.ArtifactPath, shortHash(run.ArtifactSHA256)))
	}

	return b.String()
}

func shortHash(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
