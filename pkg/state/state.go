// Package state publishes the wrapper's agent status to tmux and runs
// user-configured shell hooks.
package state

import (
	"os/exec"
	"strings"
)

// StatusOption is the tmux user option holding the agent status.
// Status-line formats can read it with #{@cursor-agent-notify-status}.
const StatusOption = "@cursor-agent-notify-status"

// Status values published over a session's lifetime.
const (
	StatusIdle       = "IDLE"
	StatusInProgress = "INPROGRESS"
	StatusWaiting    = "WAITING"
)

// SetTmuxStatus sets the tmux user option to value, or unsets it when
// value is empty so a stale status does not linger after exit, and
// runs the status-change hook if configured. Everything is
// fire-and-forget: outside tmux, or with no tmux binary, nothing
// happens and nothing fails.
func SetTmuxStatus(value, hook string) {
	var cmd *exec.Cmd
	if value == "" {
		cmd = exec.Command("tmux", "set-option", "-qu", StatusOption)
	} else {
		cmd = exec.Command("tmux", "set-option", "-q", StatusOption, value)
	}
	startAndReap(cmd)

	if hook != "" {
		RunHook(strings.ReplaceAll(hook, "{status}", value))
	}
}

// RunHook runs a shell command without waiting for it or caring
// whether it succeeds. Output is discarded.
func RunHook(command string) {
	if command == "" {
		return
	}
	// #nosec G204 - hooks come from the user's own config
	startAndReap(exec.Command("sh", "-c", command))
}

// startAndReap launches the command and reaps it in the background so
// finished hooks do not pile up as zombies.
func startAndReap(cmd *exec.Cmd) {
	if err := cmd.Start(); err != nil {
		return
	}
	go func() { _ = cmd.Wait() }()
}
