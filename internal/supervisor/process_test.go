package supervisor

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitExit(t *testing.T, p *ManagedProcess) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit")
	}
}

func TestProcess_CleanExit(t *testing.T) {
	p, err := startProcess([]string{"sh", "-c", "exit 0"}, t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("startProcess() error = %v", err)
	}

	waitExit(t, p)
	if p.ExitError() != nil {
		t.Errorf("ExitError() = %v, want nil", p.ExitError())
	}
	if p.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", p.ExitCode())
	}
}

func TestProcess_CrashExitCode(t *testing.T) {
	p, err := startProcess([]string{"sh", "-c", "exit 3"}, t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("startProcess() error = %v", err)
	}

	waitExit(t, p)
	if p.ExitError() == nil {
		t.Fatal("ExitError() = nil for non-zero exit")
	}
	if p.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", p.ExitCode())
	}
}

func TestProcess_SpawnFailure(t *testing.T) {
	_, err := startProcess([]string{"/nonexistent-binary-for-test"}, t.TempDir(), nil, zap.NewNop())
	if err == nil {
		t.Fatal("startProcess() succeeded for a missing binary")
	}
}

func TestProcess_TerminateLongRunning(t *testing.T) {
	p, err := startProcess([]string{"sleep", "60"}, t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("startProcess() error = %v", err)
	}

	start := time.Now()
	p.Terminate(5 * time.Second)
	if took := time.Since(start); took > 5*time.Second {
		t.Errorf("Terminate took %v, SIGTERM should have sufficed", took)
	}

	select {
	case <-p.Done():
	default:
		t.Error("process still running after Terminate")
	}
}

func TestProcess_TerminateAfterExitIsNoop(t *testing.T) {
	p, err := startProcess([]string{"sh", "-c", "exit 0"}, t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("startProcess() error = %v", err)
	}
	waitExit(t, p)

	// Must not panic or block.
	p.Terminate(time.Second)
}

func TestProcess_ExtraEnvPassed(t *testing.T) {
	dir := t.TempDir()
	p, err := startProcess(
		[]string{"sh", "-c", `printf '%s' "$PORT" > out`},
		dir,
		[]string{"PORT=9999"},
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("startProcess() error = %v", err)
	}
	waitExit(t, p)

	data := readFileEventually(t, dir+"/out")
	if string(data) != "9999" {
		t.Errorf("child saw PORT=%q, want 9999", data)
	}
}
