// Command devloop is the development-mode supervisor for the demo
// backend. It installs dependencies, keeps the server process running,
// and reinstalls plus restarts whenever a dependency descriptor file
// changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/sirosfoundation/go-demo-backend/internal/supervisor"
	"github.com/sirosfoundation/go-demo-backend/pkg/config"
	"github.com/sirosfoundation/go-demo-backend/pkg/logging"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	workDir    = flag.String("workdir", "", "Override the supervisor working directory")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *workDir != "" {
		cfg.Supervisor.WorkDir = *workDir
	}

	logger, err := logging.NewLogger(logging.Config(cfg.Logging))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("Supervisor failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sup := cfg.Supervisor

	logger.Info("Starting devloop supervisor",
		zap.String("workdir", sup.WorkDir),
		zap.Strings("command", sup.Command),
		zap.Strings("descriptors", sup.Descriptors),
	)

	// Shutdown coordinator: a signal cancels both loops' context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set := supervisor.NewDescriptorSet(sup.WorkDir, sup.Descriptors)

	err := supervisor.WaitForDescriptors(ctx, set, sup.BootstrapAttempts, sup.BootstrapDelay(), logger)
	if errors.Is(err, context.Canceled) {
		// Shutdown signal during bootstrap is a normal exit.
		return nil
	}
	if err != nil {
		return err
	}

	fpPath := sup.FingerprintFile
	if !filepath.IsAbs(fpPath) {
		fpPath = filepath.Join(sup.WorkDir, fpPath)
	}
	store := supervisor.NewStore(fpPath)
	installer := supervisor.NewCommandInstaller(sup.WorkDir, sup.InstallCommand, logger)

	// Initial install runs synchronously before anything serves.
	supervisor.Bootstrap(ctx, set, store, installer, logger)

	runLoop := supervisor.New(
		sup.Command,
		sup.WorkDir,
		[]string{
			fmt.Sprintf("PORT=%d", cfg.Server.Port),
			fmt.Sprintf("DEMO_SERVER_PORT=%d", cfg.Server.Port),
		},
		sup.RestartDelay(),
		logger,
	)
	watcher := supervisor.NewWatcher(set, store, installer, runLoop, sup.Tick(), logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		watcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		runLoop.Run(ctx)
	}()
	wg.Wait()

	logger.Info("Supervisor exited")
	return nil
}
