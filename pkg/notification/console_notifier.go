package notification

import (
	"fmt"
	"os"
)

// ConsoleNotifier prints notifications to stderr instead of invoking
// an external command. It backs --notify verification runs where no
// delivery command is configured, and stderr keeps the output visible
// when stdout is redirected.
type ConsoleNotifier struct{}

// NewConsoleNotifier creates a new console notifier
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// Send implements the Notifier interface
func (c *ConsoleNotifier) Send(notification Notification) error {
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n",
		notification.Time.Format("15:04:05"), notification.Title, notification.Message)
	return nil
}
