package supervisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Installer materializes dependencies from the descriptor files into a
// runnable state. A failed install is never fatal to the caller: the
// fingerprint store is not advanced, so the next tick retries.
type Installer interface {
	Install(ctx context.Context) error
}

// CommandInstaller runs a configured install command in the working
// directory, streaming its output to the log.
type CommandInstaller struct {
	dir    string
	argv   []string
	logger *zap.Logger
}

// NewCommandInstaller creates an installer for argv run in dir.
func NewCommandInstaller(dir string, argv []string, logger *zap.Logger) *CommandInstaller {
	return &CommandInstaller{
		dir:    dir,
		argv:   argv,
		logger: logger.Named("installer"),
	}
}

// Install runs the install command synchronously. Cancelling ctx kills
// the command mid-run.
func (i *CommandInstaller) Install(ctx context.Context) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, i.argv[0], i.argv[1:]...)
	cmd.Dir = i.dir

	if stdout, err := cmd.StdoutPipe(); err == nil {
		go logLines(stdout, i.logger, "stdout")
	}
	if stderr, err := cmd.StderrPipe(); err == nil {
		go logLines(stderr, i.logger, "stderr")
	}

	i.logger.Info("Installing dependencies", zap.Strings("command", i.argv))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install command failed: %w", err)
	}
	i.logger.Info("Install finished", zap.Duration("took", time.Since(start)))
	return nil
}

// logLines forwards one log entry per output line until r is exhausted.
func logLines(r io.Reader, logger *zap.Logger, stream string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		logger.Info(scanner.Text(), zap.String("stream", stream))
	}
}
