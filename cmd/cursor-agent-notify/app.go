package main

import (
	"bytes"
	"strings"

	"go.uber.org/zap"

	"github.com/nakkulla/cursor-agent-notify/pkg/config"
	"github.com/nakkulla/cursor-agent-notify/pkg/monitor"
	"github.com/nakkulla/cursor-agent-notify/pkg/notification"
	"github.com/nakkulla/cursor-agent-notify/pkg/process"
	"github.com/nakkulla/cursor-agent-notify/pkg/state"
)

// altIKey is the Alt+I escape sequence; the user can press it to
// reset the published tmux status back to IDLE.
var altIKey = []byte{0x1b, 'i'}

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config         *config.Store
	Logger         *zap.Logger
	Notifier       notification.Notifier
	Monitor        *monitor.Monitor
	ProcessManager *process.Manager
	configWatcher  *config.Watcher
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	store := config.NewStore(cfg)

	deps := &Dependencies{
		Config: store,
		Logger: logger,
	}

	// Command delivery wrapped with placeholder resolution
	baseNotifier := notification.NewCommandNotifier(cfg.NotifyCommand)
	deps.Notifier = notification.NewContextNotifier(baseNotifier)

	deps.Monitor = monitor.NewMonitor(store, deps.Notifier, logger)

	// Publish phase changes as tmux status
	deps.Monitor.SetOnPhaseChange(func(phase monitor.Phase) {
		snap := store.Snapshot()
		switch phase {
		case monitor.PhaseBusy:
			state.SetTmuxStatus(state.StatusInProgress, snap.Hooks.StatusChange)
		case monitor.PhaseIdle:
			state.SetTmuxStatus(state.StatusWaiting, snap.Hooks.StatusChange)
		}
	})

	deps.Monitor.SetOnVimModeChange(func(mode monitor.VimMode) {
		snap := store.Snapshot()
		if snap.Hooks.VimModeChange != "" {
			state.RunHook(strings.ReplaceAll(snap.Hooks.VimModeChange, "{vim_mode}", mode.String()))
		}
	})

	deps.ProcessManager = process.NewManager(store, deps.Monitor, deps.inputHandler, logger)

	// Hot-reload the config file when it exists; a missing file or an
	// unwatchable directory only disables reloading.
	if path := config.Path(); path != "" {
		if watcher, err := config.NewWatcher(store, path, logger); err == nil {
			deps.configWatcher = watcher
		} else {
			logger.Debug("config watching disabled", zap.Error(err))
		}
	}

	return deps, nil
}

// inputHandler inspects raw stdin bytes for wrapper key bindings.
func (d *Dependencies) inputHandler(data []byte) {
	snap := d.Config.Snapshot()

	// Alt+I resets the tmux status to IDLE
	if bytes.Contains(data, altIKey) {
		state.SetTmuxStatus(state.StatusIdle, snap.Hooks.StatusChange)
		d.Logger.Debug("status reset by Alt+I")
	}

	// A lone ESC is a single-byte read; multi-byte reads starting
	// with ESC are escape sequences (arrow keys, Alt chords).
	if len(data) == 1 && data[0] == 0x1b &&
		d.Monitor.VimMode() == monitor.VimModeNormal {
		if snap.Hooks.EscInNormal != "" {
			state.RunHook(snap.Hooks.EscInNormal)
		}
	}
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.configWatcher != nil {
		_ = d.configWatcher.Close()
	}
	_ = d.Logger.Sync()
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{deps: deps}
}

// Run starts the application with the given command and arguments
func (a *Application) Run(command string, args []string) error {
	snap := a.deps.Config.Snapshot()
	state.SetTmuxStatus(state.StatusIdle, snap.Hooks.StatusChange)

	if err := a.deps.ProcessManager.Start(command, args); err != nil {
		return err
	}

	err := a.deps.ProcessManager.Wait()

	// Clear tmux status on exit so it doesn't linger
	state.SetTmuxStatus("", a.deps.Config.Snapshot().Hooks.StatusChange)

	return err
}

// Stop gracefully stops the application
func (a *Application) Stop() error {
	return a.deps.ProcessManager.Stop()
}

// ExitCode returns the exit code of the wrapped process
func (a *Application) ExitCode() int {
	return a.deps.ProcessManager.ExitCode()
}
