package supervisor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// termGrace is how long a terminated child gets to exit cleanly before
// it is killed.
const termGrace = 10 * time.Second

// Supervisor is the run-loop that keeps exactly one instance of the
// managed server process alive. Every exit, whatever the cause, is
// followed by a respawn after a fixed delay; the loop ends only when
// its context is cancelled.
type Supervisor struct {
	command      []string
	dir          string
	extraEnv     []string
	restartDelay time.Duration
	logger       *zap.Logger

	mu      sync.Mutex
	current *ManagedProcess
}

// New creates a supervisor for the given command. extraEnv entries are
// appended to the inherited environment of every spawn.
func New(command []string, dir string, extraEnv []string, restartDelay time.Duration, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		command:      command,
		dir:          dir,
		extraEnv:     extraEnv,
		restartDelay: restartDelay,
		logger:       logger.Named("supervisor"),
	}
}

// Run drives the loop until ctx is cancelled. On cancellation the
// current child, if any, is terminated before Run returns; no orphan
// survives.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		p, err := startProcess(s.command, s.dir, s.extraEnv, s.logger.Named("server"))
		if err != nil {
			// Spawn failures are retried like crashes.
			s.logger.Error("Failed to start server process", zap.Error(err))
			if !sleepCtx(ctx, s.restartDelay) {
				return
			}
			continue
		}

		s.mu.Lock()
		s.current = p
		s.mu.Unlock()

		s.logger.Info("Server process started",
			zap.Int("pid", p.Pid()),
			zap.Strings("command", s.command))

		select {
		case <-ctx.Done():
			p.Terminate(termGrace)
			s.clearCurrent()
			s.logger.Info("Server process stopped for shutdown")
			return
		case <-p.Done():
			s.clearCurrent()
			if err := p.ExitError(); err != nil {
				s.logger.Warn("Server process exited",
					zap.Int("code", p.ExitCode()),
					zap.Error(err))
			} else {
				s.logger.Info("Server process exited cleanly")
			}
		}

		if !sleepCtx(ctx, s.restartDelay) {
			return
		}
	}
}

// RequestRestart terminates the current child so the run-loop respawns
// it. A no-op when nothing is running; there is no acknowledgment, the
// loop will eventually notice the death and restart.
func (s *Supervisor) RequestRestart(reason string) {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()

	if p == nil {
		s.logger.Debug("Restart requested with no process running",
			zap.String("reason", reason))
		return
	}

	s.logger.Info("Restarting server process",
		zap.String("reason", reason),
		zap.Int("pid", p.Pid()))
	p.Terminate(termGrace)
}

func (s *Supervisor) clearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// sleepCtx sleeps for d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
