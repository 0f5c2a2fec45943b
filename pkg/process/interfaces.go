package process

import (
	"io"
	"os"
	"time"
)

// OutputHandler consumes the relay's output events. HandleChunk sees
// every raw chunk read from the PTY; HandleTimeout fires when a
// bounded read produced no data, so consumers observe silence as an
// event rather than as the absence of one.
type OutputHandler interface {
	HandleChunk(data []byte)
	HandleTimeout()
}

// InputHandler observes raw stdin bytes on their way to the agent.
type InputHandler func(data []byte)

// RelayOptions configures a PTY relay session.
type RelayOptions struct {
	// ReadTimeout bounds each PTY read; on expiry the output handler
	// receives a timeout event instead of a chunk.
	ReadTimeout time.Duration
	// Output receives chunk and timeout events. May be nil.
	Output OutputHandler
	// Input observes stdin data. May be nil.
	Input InputHandler
	// OutputDump and InputDump, when non-nil, receive a copy of all
	// raw PTY output / stdin input for debugging.
	OutputDump io.Writer
	InputDump  io.Writer
}

// PTY defines the interface for PTY operations
type PTY interface {
	Start(command string, args []string, env []string) error
	Wait() error
	Stop() error
	ProcessState() *os.ProcessState
	Process() *os.Process
	Relay(stdin io.Reader, stdout io.Writer, opts RelayOptions) error
}
