package notification

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ContextNotifier wraps another notifier and resolves context
// placeholders in the notification title and message before
// forwarding. Supported placeholders:
//
//	{cwd}           current working directory
//	{git_branch}    current git branch, empty outside a repo
//	{git_repo}      basename of the git toplevel, empty outside a repo
//	{tmux_session}  current tmux session name, empty outside tmux
//
// Placeholders that cannot be resolved become empty strings rather
// than errors.
type ContextNotifier struct {
	underlying Notifier
}

// NewContextNotifier creates a new context notifier
func NewContextNotifier(underlying Notifier) *ContextNotifier {
	return &ContextNotifier{underlying: underlying}
}

// Send implements the Notifier interface
func (cn *ContextNotifier) Send(notification Notification) error {
	notification.Title = ResolvePlaceholders(notification.Title)
	notification.Message = ResolvePlaceholders(notification.Message)
	return cn.underlying.Send(notification)
}

// ResolvePlaceholders substitutes the supported placeholders in a
// template. Lookups only run for placeholders actually present, so a
// plain string costs nothing.
func ResolvePlaceholders(template string) string {
	result := template

	if strings.Contains(result, "{cwd}") {
		cwd, _ := os.Getwd()
		result = strings.ReplaceAll(result, "{cwd}", cwd)
	}

	if strings.Contains(result, "{git_branch}") {
		result = strings.ReplaceAll(result, "{git_branch}",
			commandOutput("git", "rev-parse", "--abbrev-ref", "HEAD"))
	}

	if strings.Contains(result, "{git_repo}") {
		repo := ""
		if top := commandOutput("git", "rev-parse", "--show-toplevel"); top != "" {
			repo = filepath.Base(top)
		}
		result = strings.ReplaceAll(result, "{git_repo}", repo)
	}

	if strings.Contains(result, "{tmux_session}") {
		result = strings.ReplaceAll(result, "{tmux_session}",
			commandOutput("tmux", "display-message", "-p", "#S"))
	}

	return result
}

// commandOutput runs a command and returns its trimmed stdout, or
// an empty string on any failure.
func commandOutput(name string, args ...string) string {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
