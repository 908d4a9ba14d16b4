// Package agent manages the worker process and the streaming link to it.
package agent

import (
	"os"
	"os/exec"
	"sync"

	"github.com/vinayprograms/agentkit/logging"

	"github.com/suitools/suicli/internal/config"
)

// SecretEnvVar is the only channel through which the decrypted private
// key reaches the worker. It is set in the child environment and never
// written to disk or passed on the command line.
const SecretEnvVar = "SUI_PRIVATE_KEY"

// Supervisor owns the worker process for one session. Stop is safe to
// call from any exit path and kills at most once.
type Supervisor struct {
	cmd      *exec.Cmd
	stopOnce sync.Once
	done     chan error
	logger   *logging.Logger
}

// StartWorker launches the worker with the secret injected into its
// environment. Worker stdout and stderr are discarded so they cannot
// corrupt the terminal UI. A start failure is reported as a SpawnError
// carrying the resolved executable path; it is distinct from the worker
// exiting later, which surfaces on Done.
func StartWorker(cfg config.WorkerConfig, secret string) (*Supervisor, error) {
	resolved, lookErr := exec.LookPath(cfg.Command)
	if lookErr != nil {
		return nil, &SpawnError{Command: cfg.Command, Err: lookErr}
	}

	cmd := exec.Command(resolved, cfg.Args...)
	cmd.Env = append(os.Environ(),
		SecretEnvVar+"="+secret,
		"PYTHONUNBUFFERED=1",
	)
	// nil Stdout/Stderr means the child writes to the null device.
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: cfg.Command, Resolved: resolved, Err: err}
	}

	s := &Supervisor{
		cmd:    cmd,
		done:   make(chan error, 1),
		logger: logging.New().WithComponent("supervisor"),
	}
	s.logger.Info("worker started", map[string]interface{}{
		"path": resolved,
		"pid":  cmd.Process.Pid,
	})
	go func() {
		s.done <- cmd.Wait()
	}()
	return s, nil
}

// Pid returns the worker process id.
func (s *Supervisor) Pid() int {
	return s.cmd.Process.Pid
}

// Done reports worker exit. It fires once, with the Wait error if any.
func (s *Supervisor) Done() <-chan error {
	return s.done
}

// Stop kills the worker. Repeated calls are no-ops, so every exit path
// may call it unconditionally.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() {
		if err := s.cmd.Process.Kill(); err != nil {
			s.logger.Warn("worker kill failed", map[string]interface{}{"error": err.Error()})
		} else {
			s.logger.Info("worker stopped", map[string]interface{}{"pid": s.cmd.Process.Pid})
		}
	})
}
