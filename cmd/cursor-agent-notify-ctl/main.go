// cursor-agent-notify-ctl drives the wrapper's side effects by hand:
// sending a test notification and setting or clearing the tmux status
// option. Useful for wiring up status-line formats and hooks without
// running an agent session.
package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/nakkulla/cursor-agent-notify/pkg/config"
	"github.com/nakkulla/cursor-agent-notify/pkg/notification"
	"github.com/nakkulla/cursor-agent-notify/pkg/state"
)

func main() {
	var (
		notify    bool
		status    string
		hasStatus bool
	)

	flag.CommandLine.SetOutput(os.Stderr)
	flag.BoolVar(&notify, "notify", false, "Send a test notification")
	flag.StringVar(&status, "status", "", "Set tmux status (INPROGRESS, WAITING, or empty to clear)")
	flag.Parse()
	hasStatus = flag.CommandLine.Changed("status")

	if !notify && !hasStatus {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if notify {
		if err := sendTestNotification(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send notification: %v\n", err)
			os.Exit(1)
		}
	}

	if hasStatus {
		state.SetTmuxStatus(status, cfg.Hooks.StatusChange)
	}
}

func sendTestNotification(cfg *config.Config) error {
	return buildNotifier(cfg).Send(notification.Notification{
		Title:   cfg.NotificationTitle,
		Message: cfg.NotificationBody,
		Time:    time.Now(),
	})
}

// buildNotifier picks the delivery path for a test notification. With
// no command configured, or in quiet mode, the notification goes to
// the terminal so --notify still shows something verifiable.
func buildNotifier(cfg *config.Config) notification.Notifier {
	if cfg.Quiet || cfg.NotifyCommand == "" {
		return notification.NewContextNotifier(notification.NewConsoleNotifier())
	}
	return notification.NewContextNotifier(notification.NewCommandNotifier(cfg.NotifyCommand))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: cursor-agent-notify-ctl [OPTIONS]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "      --notify            Send a test notification")
	fmt.Fprintln(os.Stderr, "      --status <value>    Set tmux status (INPROGRESS, WAITING, or empty to clear)")
}
