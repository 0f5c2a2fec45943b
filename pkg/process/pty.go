package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"
)

// PTYManager handles PTY-based process execution
type PTYManager struct {
	cmd         *exec.Cmd
	pty         *os.File
	logger      *zap.Logger
	mu          sync.Mutex
	stopChan    chan struct{}
	wg          sync.WaitGroup
	restoreFunc func()
}

// Ensure PTYManager implements PTY
var _ PTY = (*PTYManager)(nil)

// NewPTYManager creates a new PTY manager
func NewPTYManager(logger *zap.Logger) *PTYManager {
	return &PTYManager{
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start starts a process with PTY
func (p *PTYManager) Start(command string, args []string, env []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return fmt.Errorf("process already started")
	}

	p.cmd = exec.Command(command, args...)
	p.cmd.Env = env

	var err error
	p.pty, err = pty.Start(p.cmd)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	// Copy terminal size; some environments have no terminal at all
	if err := p.copyTerminalSize(); err != nil {
		p.logger.Debug("failed to copy terminal size", zap.Error(err))
	}

	// Start monitoring for terminal size changes
	p.wg.Add(1)
	go p.monitorTerminalSize()

	return nil
}

// Wait waits for the process to complete
func (p *PTYManager) Wait() error {
	if p.cmd == nil {
		return fmt.Errorf("process not started")
	}

	err := p.cmd.Wait()

	// Signal stop to goroutines
	close(p.stopChan)
	p.wg.Wait()

	// Closing the PTY unblocks the relay's reader
	p.mu.Lock()
	if p.pty != nil {
		_ = p.pty.Close()
	}
	p.mu.Unlock()

	return err
}

// ProcessState returns the process state
func (p *PTYManager) ProcessState() *os.ProcessState {
	if p.cmd == nil {
		return nil
	}
	return p.cmd.ProcessState
}

// Process returns the underlying process
func (p *PTYManager) Process() *os.Process {
	if p.cmd == nil {
		return nil
	}
	return p.cmd.Process
}

// Stop gracefully stops the PTY manager and restores terminal state
func (p *PTYManager) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.restoreFunc != nil {
		p.restoreFunc()
		p.restoreFunc = nil
	}

	return nil
}

// copyTerminalSize copies the terminal size from stdin to the PTY
func (p *PTYManager) copyTerminalSize() error {
	size, err := pty.GetsizeFull(os.Stdin)
	if err != nil {
		return err
	}

	return pty.Setsize(p.pty, size)
}

// monitorTerminalSize forwards SIGWINCH resizes to the PTY
func (p *PTYManager) monitorTerminalSize() {
	defer p.wg.Done()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			p.mu.Lock()
			if p.pty != nil {
				if err := p.copyTerminalSize(); err != nil {
					p.logger.Debug("failed to resize PTY", zap.Error(err))
				}
			}
			p.mu.Unlock()
		case <-p.stopChan:
			return
		}
	}
}

// Relay copies stdin to the PTY and PTY output to stdout. Output is
// read through a bounded-wait loop: a reader goroutine delivers
// chunks on a channel and the loop either forwards a chunk or, after
// ReadTimeout of silence, tells the output handler time has passed.
// Relay returns when the PTY side is closed.
func (p *PTYManager) Relay(stdin io.Reader, stdout io.Writer, opts RelayOptions) error {
	p.mu.Lock()
	ptmx := p.pty
	p.mu.Unlock()
	if ptmx == nil {
		return fmt.Errorf("PTY not initialized")
	}

	// Put the real terminal into raw mode so keypresses reach the
	// agent immediately; restore on the way out (or from Stop).
	if file, ok := stdin.(*os.File); ok {
		if restore, err := setRawMode(int(file.Fd())); err == nil {
			p.mu.Lock()
			p.restoreFunc = restore
			p.mu.Unlock()
			defer func() {
				p.mu.Lock()
				if p.restoreFunc != nil {
					p.restoreFunc()
					p.restoreFunc = nil
				}
				p.mu.Unlock()
			}()
		}
	}

	// stdin -> PTY. Runs until stdin closes or the PTY goes away;
	// not waited on, since a blocked stdin read has no clean cancel.
	go p.copyInput(ptmx, stdin, opts)

	return p.relayOutput(ptmx, stdout, opts)
}

func (p *PTYManager) copyInput(ptmx *os.File, stdin io.Reader, opts RelayOptions) {
	buf := make([]byte, 4096)
	for {
		n, err := stdin.Read(buf)
		if n > 0 {
			data := buf[:n]
			if opts.Input != nil {
				opts.Input(data)
			}
			if opts.InputDump != nil {
				_, _ = opts.InputDump.Write(data)
			}
			if _, werr := ptmx.Write(data); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (p *PTYManager) relayOutput(ptmx io.Reader, stdout io.Writer, opts RelayOptions) error {
	timeout := opts.ReadTimeout
	if timeout <= 0 {
		timeout = time.Second
	}

	// done lets the reader bail out when the relay returns early on a
	// write error, instead of blocking forever on a full channel.
	done := make(chan struct{})
	defer close(done)

	chunks := make(chan []byte, 1)
	readErr := make(chan error, 1)
	go func() {
		defer close(chunks)
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				// EIO is how Linux reports the slave side closing;
				// it is the normal end of a session, not a failure.
				err := <-readErr
				if err == io.EOF || isClosedPTY(err) {
					return nil
				}
				return fmt.Errorf("stdout copy error: %w", err)
			}
			if _, err := stdout.Write(chunk); err != nil {
				return fmt.Errorf("stdout write error: %w", err)
			}
			if opts.OutputDump != nil {
				_, _ = opts.OutputDump.Write(chunk)
			}
			if opts.Output != nil {
				opts.Output.HandleChunk(chunk)
			}
		case <-time.After(timeout):
			if opts.Output != nil {
				opts.Output.HandleTimeout()
			}
		}
	}
}

// isClosedPTY reports whether the read error is the expected result
// of the child exiting and the PTY pair being torn down.
func isClosedPTY(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}
