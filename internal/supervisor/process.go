package supervisor

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ManagedProcess is a handle to one spawn of the server child process.
// It lives for a single run-loop iteration: created at the top, observed
// until exit, then discarded.
type ManagedProcess struct {
	cmd    *exec.Cmd
	logger *zap.Logger

	done    chan struct{}
	exitErr error // valid after done is closed
}

// startProcess spawns argv in dir with extraEnv appended to the parent
// environment, wiring stdout and stderr into the log.
func startProcess(argv []string, dir string, extraEnv []string, logger *zap.Logger) (*ManagedProcess, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), extraEnv...)

	if stdout, err := cmd.StdoutPipe(); err == nil {
		go logLines(stdout, logger, "stdout")
	}
	if stderr, err := cmd.StderrPipe(); err == nil {
		go logLines(stderr, logger, "stderr")
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &ManagedProcess{
		cmd:    cmd,
		logger: logger,
		done:   make(chan struct{}),
	}
	go p.wait()
	return p, nil
}

func (p *ManagedProcess) wait() {
	p.exitErr = p.cmd.Wait()
	close(p.done)
}

// Done returns a channel closed when the process has exited.
func (p *ManagedProcess) Done() <-chan struct{} {
	return p.done
}

// ExitError returns the error from Wait. Only meaningful after Done is
// closed; nil means a clean zero exit.
func (p *ManagedProcess) ExitError() error {
	return p.exitErr
}

// ExitCode returns the process exit code, or -1 if it was killed or has
// not exited.
func (p *ManagedProcess) ExitCode() int {
	var exit *exec.ExitError
	if errors.As(p.exitErr, &exit) {
		return exit.ExitCode()
	}
	if p.exitErr != nil {
		return -1
	}
	return 0
}

// Pid returns the operating system process id.
func (p *ManagedProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Terminate asks the process to exit with SIGTERM, escalates to SIGKILL
// after the grace period, and blocks until it is gone. Safe to call on
// a process that has already exited.
func (p *ManagedProcess) Terminate(grace time.Duration) {
	select {
	case <-p.done:
		return
	default:
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		p.logger.Warn("Failed to send SIGTERM", zap.Error(err))
	}

	var killer *time.Timer
	if grace > 0 {
		killer = time.AfterFunc(grace, func() {
			p.logger.Warn("Graceful shutdown timed out, killing",
				zap.Duration("grace", grace))
			_ = p.cmd.Process.Kill()
		})
	} else {
		_ = p.cmd.Process.Kill()
	}

	<-p.done
	if killer != nil {
		killer.Stop()
	}
}
