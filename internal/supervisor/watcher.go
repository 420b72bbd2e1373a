package supervisor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Restarter is the narrow capability the watcher holds over the managed
// process: it can request a restart but never sees a process handle.
type Restarter interface {
	RequestRestart(reason string)
}

// Watcher is the change-detector loop. Each tick it fingerprints the
// descriptor set and, on drift, reinstalls dependencies, records the new
// fingerprint, and requests a server restart.
type Watcher struct {
	descriptors DescriptorSet
	store       *Store
	installer   Installer
	restarter   Restarter
	tick        time.Duration
	logger      *zap.Logger
}

// NewWatcher creates a watcher polling set every tick.
func NewWatcher(set DescriptorSet, store *Store, installer Installer, restarter Restarter, tick time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{
		descriptors: set,
		store:       store,
		installer:   installer,
		restarter:   restarter,
		tick:        tick,
		logger:      logger.Named("watcher"),
	}
}

// Run polls until ctx is cancelled. A slow install stretches the
// current interval; ticks are never skipped or doubled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if !sleepCtx(ctx, w.tick) {
			return
		}
		w.checkOnce(ctx)
	}
}

// checkOnce performs a single drift check. Errors are handled here; the
// loop never dies.
func (w *Watcher) checkOnce(ctx context.Context) {
	current := w.descriptors.Fingerprint()
	last := w.store.Read()

	if current == last {
		return
	}

	if current == "" {
		// All descriptor files are gone at once, most likely a
		// transient state while an external sync rewrites them.
		w.logger.Warn("All descriptor files absent, skipping install")
		return
	}

	w.logger.Info("Dependency descriptors changed",
		zap.String("fingerprint", current),
		zap.String("previous", last))

	if err := w.installer.Install(ctx); err != nil {
		// Store not advanced: the next tick sees the same drift
		// and retries until it succeeds or the files revert.
		w.logger.Error("Install failed, will retry next tick", zap.Error(err))
		return
	}

	if err := w.store.Write(current); err != nil {
		w.logger.Error("Failed to record fingerprint", zap.Error(err))
		return
	}

	w.restarter.RequestRestart("dependencies changed")
}
