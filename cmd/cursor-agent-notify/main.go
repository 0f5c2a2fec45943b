package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/nakkulla/cursor-agent-notify/pkg/config"
	"github.com/nakkulla/cursor-agent-notify/pkg/logging"
)

func main() {
	// Separate our flags from the agent's: only the flags we own are
	// parsed here, everything else passes through untouched.
	var (
		configPath string
		quiet      bool
		help       bool
	)

	ourArgs := []string{}
	agentArgs := []string{}

	i := 1 // Skip program name
	for i < len(os.Args) {
		arg := os.Args[i]

		switch arg {
		case "--config", "-config":
			ourArgs = append(ourArgs, arg)
			if i+1 < len(os.Args) && !strings.HasPrefix(os.Args[i+1], "-") {
				ourArgs = append(ourArgs, os.Args[i+1])
				i++
			}
		case "--quiet", "-quiet":
			ourArgs = append(ourArgs, arg)
		case "--help", "-help", "-h":
			ourArgs = append(ourArgs, "--help")
		default:
			if strings.HasPrefix(arg, "--config=") || strings.HasPrefix(arg, "-config=") {
				ourArgs = append(ourArgs, arg)
			} else {
				agentArgs = append(agentArgs, arg)
			}
		}
		i++
	}

	flag.CommandLine.SetOutput(os.Stderr)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&quiet, "quiet", false, "Disable all notifications")
	flag.BoolVar(&help, "help", false, "Show help message")

	if err := flag.CommandLine.Parse(ourArgs); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
			os.Exit(1)
		}
		printUsage()
		os.Exit(0)
	}

	// Only show our help when the agent isn't being asked for its own
	if help && len(agentArgs) == 0 {
		printUsage()
		os.Exit(0)
	}

	// An explicit config path must be set before Load reads it
	if configPath != "" {
		if err := os.Setenv("CURSOR_NOTIFY_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if quiet {
		cfg.Quiet = true
	}

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}

	// Determine the agent binary
	var command string
	if cfg.AgentPath != "" {
		// Use the configured path directly; let it fail at execution if wrong
		command = cfg.AgentPath
	} else {
		agentPath, err := findAgent()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nYou can fix this by:\n")
			fmt.Fprintf(os.Stderr, "1. Setting agent_path in your config file (~/.config/cursor-agent-notify/config.yaml)\n")
			fmt.Fprintf(os.Stderr, "2. Setting CURSOR_NOTIFY_AGENT_PATH environment variable\n")
			fmt.Fprintf(os.Stderr, "3. Ensuring cursor-agent is in your PATH\n")
			os.Exit(1)
		}
		command = agentPath
	}

	// Merge default args with user args
	var args []string
	args = append(args, cfg.DefaultAgentArgs...)
	args = append(args, agentArgs...)

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	app := NewApplication(deps)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Ensure terminal restoration on panic
	defer func() {
		if r := recover(); r != nil {
			_ = app.Stop() // Best effort terminal restoration
			panic(r)       // Re-panic
		}
	}()

	go func() {
		<-sigChan
		if err := app.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping process: %v\n", err)
		}
		os.Exit(130)
	}()

	if err := app.Run(command, args); err != nil {
		// Expected exit errors carry the agent's own exit code
		if _, ok := err.(*exec.ExitError); !ok {
			fmt.Fprintf(os.Stderr, "Error running agent: %v\n", err)
		}
	}

	os.Exit(app.ExitCode())
}

func printUsage() {
	fmt.Println("cursor-agent-notify - cursor-agent wrapper with desktop notifications")
	fmt.Println()
	fmt.Println("Usage: cursor-agent-notify [OPTIONS] [AGENT_ARGS...]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("      --config string   Path to config file")
	fmt.Println("      --help            Show help message")
	fmt.Println("      --quiet           Disable all notifications")
	fmt.Println()
	fmt.Println("All unknown flags are passed through to cursor-agent")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CURSOR_NOTIFY_TITLE            Notification title (default: Cursor Agent)")
	fmt.Println("  CURSOR_NOTIFY_BODY             Notification body (default: Done)")
	fmt.Println("  CURSOR_NOTIFY_COMMAND          Notification command (default: notify-send)")
	fmt.Println("  CURSOR_NOTIFY_DEBOUNCE_WINDOW  Silence before idle (default: 500ms)")
	fmt.Println("  CURSOR_NOTIFY_READ_TIMEOUT     PTY read timeout (default: 1s)")
	fmt.Println("  CURSOR_NOTIFY_QUIET            Disable notifications (true/false)")
	fmt.Println("  CURSOR_NOTIFY_DEFAULT_ARGS     Default agent args (comma-separated)")
	fmt.Println("  CURSOR_NOTIFY_CONFIG           Path to config file")
	fmt.Println("  CURSOR_NOTIFY_AGENT_PATH       Path to the real cursor-agent binary")
	fmt.Println("  CURSOR_NOTIFY_LOG_FILE         Debug log file")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/cursor-agent-notify/config.yaml")
}

// findAgent searches for the real cursor-agent binary in PATH,
// excluding ourselves, falling back to the default install location.
func findAgent() (string, error) {
	ourPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get our executable path: %w", err)
	}
	ourPath, err = filepath.EvalSymlinks(ourPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve our executable path: %w", err)
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		agentPath := filepath.Join(dir, "cursor-agent")

		info, err := os.Stat(agentPath)
		if err != nil {
			continue
		}

		if info.Mode().IsRegular() && info.Mode()&0111 != 0 {
			resolvedPath, err := filepath.EvalSymlinks(agentPath)
			if err != nil {
				continue
			}

			// Skip if it's our own binary
			if resolvedPath == ourPath {
				continue
			}

			return agentPath, nil
		}
	}

	// The installer's default location, in case PATH doesn't carry it
	if home, err := os.UserHomeDir(); err == nil {
		fallback := filepath.Join(home, ".local", "bin", "cursor-agent")
		if info, err := os.Stat(fallback); err == nil &&
			info.Mode().IsRegular() && info.Mode()&0111 != 0 {
			return fallback, nil
		}
	}

	return "", fmt.Errorf("cursor-agent not found in PATH (excluding cursor-agent-notify wrapper)")
}
