package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"onefile/internal/bundle"
	"onefile/internal/core/config"
	"onefile/internal/core/errors"
	"onefile/internal/core/watcher"
	"onefile/internal/data/history"
	"onefile/internal/lang"
	"onefile/internal/shared/observability"
	"onefile/internal/shared/util"
)

// App wires the workspace loader, closure walker, emitter and the
// operational pieces (history, watch mode) behind one façade.
type App struct {
	Config *config.Config
	store  *history.Store
}

// Result describes one completed bundling run.
type Result struct {
	Bundle         *bundle.Bundle
	ArtifactPath   string
	ArtifactSHA256 string
	Duration       time.Duration
}

func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeIOFailure, "open run history")
		}
		a.store = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// RunOnce loads the workspace, walks the closure of root and writes the
// artifact. Terminal errors leave no partial artifact behind; non-fatal
// diagnostics are logged and recorded on the result.
func (a *App) RunOnce(ctx context.Context, root string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunOnce",
		trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	start := time.Now()

	ws, err := lang.LoadWorkspace(ctx, a.Config.Workspace, lang.LoadOptions{
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
	})
	if err != nil {
		return nil, err
	}

	walker := bundle.NewWalker(ws, bundle.Policy(a.Config.Closure.Policy))
	b, err := walker.Bundle(ctx, root)
	if err != nil {
		return nil, err
	}

	for _, d := range b.Diagnostics {
		observability.DiagnosticsTotal.WithLabelValues(string(d.Kind)).Inc()
		slog.Warn("bundle diagnostic", "detail", d.String())
	}

	emitter := bundle.NewEmitter(ws, bundle.EmitterOptions{
		EntryOperation: a.Config.Closure.EntryOperation,
		ScaffoldClass:  a.Config.Closure.ScaffoldClass,
	})
	artifact := emitter.Render(b)

	if err := util.WriteFileAtomic(a.Config.Output, artifact, 0o644); err != nil {
		return nil, errors.Wrap(err, errors.CodeIOFailure, "write artifact")
	}

	sum := sha256.Sum256(artifact)
	result := &Result{
		Bundle:         b,
		ArtifactPath:   a.Config.Output,
		ArtifactSHA256: hex.EncodeToString(sum[:]),
		Duration:       time.Since(start),
	}

	observability.BundleDuration.Observe(result.Duration.Seconds())
	observability.BundledUnits.Observe(float64(len(b.Units)))

	if a.store != nil {
		_, err := a.store.SaveRun(history.Run{
			Root:            root,
			Policy:          string(b.Policy),
			Workspace:       a.Config.Workspace,
			ArtifactPath:    result.ArtifactPath,
			ArtifactSHA256:  result.ArtifactSHA256,
			UnitCount:       len(b.Units),
			NamespaceCount:  len(b.Namespaces),
			DiagnosticCount: len(b.Diagnostics),
			Duration:        result.Duration,
		})
		if err != nil {
			slog.Warn("failed to record run history", "error", err)
		}
	}

	slog.Info("bundle written",
		"root", root,
		"artifact", result.ArtifactPath,
		"units", len(b.Units),
		"namespaces", len(b.Namespaces),
		"diagnostics", len(b.Diagnostics),
		"duration", result.Duration)

	return result, nil
}

// WatchAndRebundle runs once, then re-bundles whenever workspace sources
// change. Every run owns fresh traversal state; failures of individual runs
// are logged, not fatal. Returns when ctx is cancelled.
func (a *App) WatchAndRebundle(ctx context.Context, root string) error {
	if _, err := a.RunOnce(ctx, root); err != nil {
		return err
	}

	limiter := util.NewLimiter(a.Config.Watch.RebundlesPerSec, a.Config.Watch.RebundleBurst)
	trigger := make(chan struct{}, 1)

	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, func(paths []string) {
		slog.Debug("workspace changed", "files", len(paths))
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "start watcher")
	}
	defer w.Close()

	if err := w.Watch(a.Config.Workspace); err != nil {
		return errors.Wrap(err, errors.CodeIOFailure, "watch workspace")
	}
	slog.Info("watching workspace", "root", a.Config.Workspace)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			if err := limiter.Wait(ctx, 1); err != nil {
				return err
			}
			observability.RebundlesTotal.Inc()
			if _, err := a.RunOnce(ctx, root); err != nil {
				slog.Error("rebundle failed", "error", err)
			}
		}
	}
}

// RecentRuns returns history rows for the -history listing.
func (a *App) RecentRuns(limit int) ([]history.Run, error) {
	if a.store == nil {
		return nil, fmt.Errorf("run history is not enabled")
	}
	return a.store.RecentRuns(limit)
}
