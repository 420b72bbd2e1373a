package supervisor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// WaitForDescriptors blocks until at least one descriptor file exists,
// polling up to attempts times delay apart. The supervisor cannot run
// without knowing what to install, so exhausting the bound is a fatal
// startup error.
func WaitForDescriptors(ctx context.Context, set DescriptorSet, attempts int, delay time.Duration, logger *zap.Logger) error {
	for i := 1; i <= attempts; i++ {
		if set.Exists() {
			return nil
		}
		logger.Info("Waiting for descriptor files",
			zap.Strings("paths", set.Paths()),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts))
		if i < attempts {
			if !sleepCtx(ctx, delay) {
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("descriptor files %v not found after %d attempts", set.Paths(), attempts)
}

// Bootstrap runs the initial install and records the resulting
// fingerprint. Install failure here is non-fatal: the store is left
// empty so the watcher's first tick sees drift and retries.
func Bootstrap(ctx context.Context, set DescriptorSet, store *Store, installer Installer, logger *zap.Logger) {
	if err := installer.Install(ctx); err != nil {
		logger.Error("Initial install failed, watcher will retry", zap.Error(err))
		return
	}
	fp := set.Fingerprint()
	if fp == "" {
		return
	}
	if err := store.Write(fp); err != nil {
		logger.Error("Failed to record initial fingerprint", zap.Error(err))
	}
}
