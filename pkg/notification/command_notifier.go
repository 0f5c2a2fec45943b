package notification

import (
	"fmt"
	"os/exec"
)

// CommandNotifier delivers notifications by invoking an external
// command (notify-send by default) with the title and message as its
// two arguments. Delivery is best effort: a missing binary or a
// non-zero exit is reported to the caller, who is expected to log and
// move on rather than treat it as fatal.
type CommandNotifier struct {
	command string
}

// NewCommandNotifier creates a notifier that runs the given command.
func NewCommandNotifier(command string) *CommandNotifier {
	return &CommandNotifier{command: command}
}

// Send implements the Notifier interface
func (c *CommandNotifier) Send(notification Notification) error {
	if c.command == "" {
		return fmt.Errorf("notify command not configured")
	}

	// #nosec G204 - the command comes from the user's own config
	cmd := exec.Command(c.command, notification.Title, notification.Message)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (output: %q)", c.command, err, string(out))
	}
	return nil
}
