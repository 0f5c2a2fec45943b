package process

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/nakkulla/cursor-agent-notify/pkg/config"
)

// wrappedEnv guards against the wrapper accidentally spawning itself.
const wrappedEnv = "CURSOR_AGENT_NOTIFY_WRAPPED"

// Env vars pointing raw I/O dumps at files, for debugging what the
// agent actually emits (like tmux pipe-pane).
const (
	outputDumpEnv = "CURSOR_NOTIFY_DUMP_FILE"
	inputDumpEnv  = "CURSOR_NOTIFY_INPUT_DUMP_FILE"
)

// Manager manages the wrapped agent process
type Manager struct {
	config        *config.Store
	logger        *zap.Logger
	ptyManager    PTY
	outputHandler OutputHandler
	inputHandler  InputHandler
	exitCode      int
	mu            sync.Mutex
	sigChan       chan os.Signal
	done          chan struct{}
	dumps         []*os.File
}

// NewManager creates a new process manager
func NewManager(cfg *config.Store, outputHandler OutputHandler, inputHandler InputHandler, logger *zap.Logger) *Manager {
	return &Manager{
		config:        cfg,
		logger:        logger,
		ptyManager:    NewPTYManager(logger),
		outputHandler: outputHandler,
		inputHandler:  inputHandler,
		done:          make(chan struct{}),
	}
}

// Start starts the agent process
func (m *Manager) Start(command string, args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check for self-wrap
	if os.Getenv(wrappedEnv) == "1" {
		return fmt.Errorf("already wrapped by cursor-agent-notify")
	}

	// Copy the environment with our guard variable added once
	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, wrappedEnv+"=") {
			env = append(env, e)
		}
	}
	env = append(env, wrappedEnv+"=1")

	if err := m.ptyManager.Start(command, args, env); err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	opts := RelayOptions{
		ReadTimeout: m.config.Snapshot().ReadTimeout.Std(),
		Output:      m.outputHandler,
		Input:       m.inputHandler,
		OutputDump:  m.openDump(outputDumpEnv),
		InputDump:   m.openDump(inputDumpEnv),
	}

	go func() {
		if err := m.ptyManager.Relay(os.Stdin, os.Stdout, opts); err != nil {
			m.logger.Warn("relay error", zap.Error(err))
		}
	}()

	m.setupSignalForwarding()

	return nil
}

// openDump opens the dump file named by the env var, or returns nil.
func (m *Manager) openDump(envVar string) io.Writer {
	path := os.Getenv(envVar)
	if path == "" {
		return nil
	}
	// #nosec G304 - debug dump path supplied by the user
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		m.logger.Warn("failed to open dump file",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	m.dumps = append(m.dumps, f)
	return f
}

// Wait waits for the process to exit
func (m *Manager) Wait() error {
	if m.ptyManager == nil {
		return fmt.Errorf("process not started")
	}

	err := m.ptyManager.Wait()

	m.mu.Lock()
	if m.ptyManager.ProcessState() != nil {
		m.exitCode = m.ptyManager.ProcessState().ExitCode()
	}
	for _, f := range m.dumps {
		_ = f.Close()
	}
	m.dumps = nil
	m.mu.Unlock()

	// Ensure terminal is restored
	_ = m.ptyManager.Stop()

	close(m.done)
	m.cleanupSignals()

	return err
}

// ExitCode returns the exit code of the process
func (m *Manager) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

// setupSignalForwarding sets up signal forwarding to the child process
func (m *Manager) setupSignalForwarding() {
	m.sigChan = make(chan os.Signal, 1)
	signal.Notify(m.sigChan,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)

	go m.forwardSignals()
}

// forwardSignals forwards signals to the child process
func (m *Manager) forwardSignals() {
	for {
		select {
		case sig := <-m.sigChan:
			if m.ptyManager != nil && m.ptyManager.Process() != nil {
				if err := m.ptyManager.Process().Signal(sig); err != nil {
					// Process might have already exited
					if err != os.ErrProcessDone {
						m.logger.Debug("signal forward error", zap.Error(err))
					}
				}
			}
		case <-m.done:
			return
		}
	}
}

// cleanupSignals stops signal forwarding. The channel is left open:
// closing it would feed nil signals to the forwarder if it loses the
// race against the done case.
func (m *Manager) cleanupSignals() {
	if m.sigChan != nil {
		signal.Stop(m.sigChan)
	}
}

// Stop gracefully stops the manager and cleans up resources
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptyManager != nil {
		// Ensure terminal is restored
		_ = m.ptyManager.Stop()

		if m.ptyManager.Process() != nil {
			// Send SIGTERM first for graceful shutdown
			if err := m.ptyManager.Process().Signal(syscall.SIGTERM); err != nil {
				if err != os.ErrProcessDone {
					return m.ptyManager.Process().Kill()
				}
			}
		}
	}

	return nil
}
