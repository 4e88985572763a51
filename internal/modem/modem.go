package modem

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"

	"github.com/openduro/dwgate/internal/uwb"
)

// Defaults for the serial link.
const (
	// defaultBaudRate matches the modem firmware's UART configuration.
	defaultBaudRate = 230400

	// defaultAckTimeout is how long to wait for the modem to acknowledge
	// a listen command before declaring it not ready.
	defaultAckTimeout = 500 * time.Millisecond

	// readBufferSize bounds a single host message. Frames larger than this
	// cannot be framed safely and force the receive to be abandoned.
	readBufferSize = 1024
)

// port is the subset of serial.Port the driver uses. Narrowed for
// testability.
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Config holds modem connection configuration.
type Config struct {
	// Port is the serial device path, e.g. "/dev/ttyACM0".
	Port string

	// BaudRate is the UART baud rate. Default: 230400.
	BaudRate int

	// AckTimeout is the maximum wait for a listen acknowledgment.
	// Default: 500ms.
	AckTimeout time.Duration
}

// Stats holds operational statistics.
type Stats struct {
	FramesRx    uint64
	ErrorsTotal uint64
}

// Modem drives a UWB modem over a serial port.
//
// The driver supports exactly one outstanding receive operation; the
// gateway's receive loop never overlaps them, and the driver enforces it.
type Modem struct {
	cfg  Config
	port port

	// Receive/lifecycle state
	mu        sync.Mutex
	receiving bool
	closed    bool

	// Read buffer, reused across messages. Safe because the modem is
	// driven from a single control flow.
	buf []byte

	framesRx    atomic.Uint64
	errorsTotal atomic.Uint64
}

// Open opens the serial port and returns a ready modem.
func Open(cfg Config) (*Modem, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = defaultBaudRate
	}
	if cfg.AckTimeout == 0 {
		cfg.AckTimeout = defaultAckTimeout
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, cfg.Port, err)
	}

	return newModem(p, cfg), nil
}

// newModem wires a modem onto an already-open port.
func newModem(p port, cfg Config) *Modem {
	return &Modem{
		cfg:  cfg,
		port: p,
		buf:  make([]byte, readBufferSize),
	}
}

// BeginReceive arms one receive operation: it sends a listen command and
// waits for the modem's acknowledgment.
//
// Returns ErrNotReady if the modem does not acknowledge, ErrReceiveActive
// if a receive is already outstanding, or ErrClosed after Close.
func (m *Modem) BeginReceive() (*Receive, error) {
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return nil, ErrClosed
	case m.receiving:
		m.mu.Unlock()
		return nil, ErrReceiveActive
	}
	m.receiving = true
	m.mu.Unlock()

	if err := m.listen(); err != nil {
		m.errorsTotal.Add(1)
		m.endReceive()
		return nil, err
	}

	return &Receive{m: m}, nil
}

// listen sends MsgListen and consumes the modem's acknowledgment.
func (m *Modem) listen() error {
	if _, err := m.port.Write(EncodeHostMessage(MsgListen, nil)); err != nil {
		return fmt.Errorf("%w: write listen: %w", ErrNotReady, err)
	}

	deadline := time.Now().Add(m.cfg.AckTimeout)
	msgType, payload, err := m.readMessage(deadline)
	if err != nil {
		return fmt.Errorf("%w: awaiting ack: %w", ErrNotReady, err)
	}

	switch msgType {
	case MsgListenAck:
		return nil
	case MsgRxError:
		return fmt.Errorf("%w: %s", ErrNotReady, payload)
	default:
		return fmt.Errorf("%w: unexpected message 0x%04X", ErrNotReady, msgType)
	}
}

// Receive is a handle on one armed receive operation. It is single-use:
// Wait consumes it regardless of outcome.
type Receive struct {
	m    *Modem
	done bool
}

// Wait blocks until a frame arrives, the timeout elapses, or the modem
// reports an error.
//
// Returns uwb.ErrReceiveTimeout when the link stays idle for the full
// timeout; that is the expected outcome whenever no traffic is present.
// Any other failure wraps ErrTransport or ErrDesync.
func (r *Receive) Wait(timeout time.Duration) (uwb.Frame, error) {
	if r.done {
		return uwb.Frame{}, fmt.Errorf("%w: receive handle already consumed", ErrTransport)
	}
	defer func() {
		r.done = true
		r.m.endReceive()
	}()

	deadline := time.Now().Add(timeout)
	msgType, payload, err := r.m.readMessage(deadline)
	if err != nil {
		if !errors.Is(err, uwb.ErrReceiveTimeout) {
			r.m.errorsTotal.Add(1)
		}
		return uwb.Frame{}, err
	}

	switch msgType {
	case MsgRxFrame:
		frame, err := uwb.ParseFrame(payload)
		if err != nil {
			r.m.errorsTotal.Add(1)
			return uwb.Frame{}, fmt.Errorf("%w: %w", ErrTransport, err)
		}
		r.m.framesRx.Add(1)
		return frame, nil
	case MsgRxError:
		r.m.errorsTotal.Add(1)
		return uwb.Frame{}, fmt.Errorf("%w: %s", ErrTransport, payload)
	default:
		r.m.errorsTotal.Add(1)
		return uwb.Frame{}, fmt.Errorf("%w: unexpected message 0x%04X", ErrTransport, msgType)
	}
}

// readMessage reads one complete host message before the deadline.
//
// An idle link (no size byte arrives at all) is a clean timeout. A message
// that stalls mid-read is a desync: the stream can no longer be framed.
func (m *Modem) readMessage(deadline time.Time) (uint16, []byte, error) {
	if err := m.readFull(m.buf[:2], deadline, true); err != nil {
		return 0, nil, err
	}

	size := binary.BigEndian.Uint16(m.buf[:2])
	if size < 2 {
		return 0, nil, fmt.Errorf("%w: declared size %d", ErrInvalidMessage, size)
	}

	total := 2 + int(size)
	if total > len(m.buf) {
		return 0, nil, fmt.Errorf("%w: message size %d exceeds buffer %d", ErrDesync, total, len(m.buf))
	}

	if err := m.readFull(m.buf[2:total], deadline, false); err != nil {
		return 0, nil, err
	}

	return ParseHostMessage(m.buf[:total])
}

// readFull fills buf before the deadline. idleOK controls whether a fully
// idle link is a clean timeout (uwb.ErrReceiveTimeout) or a desync.
func (m *Modem) readFull(buf []byte, deadline time.Time, idleOK bool) error {
	off := 0
	for off < len(buf) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return m.stallError(off, idleOK)
		}

		if err := m.port.SetReadTimeout(remaining); err != nil {
			return fmt.Errorf("%w: set read timeout: %w", ErrTransport, err)
		}

		n, err := m.port.Read(buf[off:])
		if err != nil {
			return fmt.Errorf("%w: read: %w", ErrTransport, err)
		}
		if n == 0 {
			// Zero-length read means the timeout elapsed.
			return m.stallError(off, idleOK)
		}
		off += n
	}
	return nil
}

// stallError classifies a read that made no further progress.
func (m *Modem) stallError(read int, idleOK bool) error {
	if idleOK && read == 0 {
		return uwb.ErrReceiveTimeout
	}
	return fmt.Errorf("%w: stalled after %d bytes", ErrDesync, read)
}

// endReceive releases the outstanding-receive slot.
func (m *Modem) endReceive() {
	m.mu.Lock()
	m.receiving = false
	m.mu.Unlock()
}

// Close closes the serial port. Safe to call multiple times.
func (m *Modem) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	return m.port.Close()
}

// Stats returns current operational statistics.
func (m *Modem) Stats() Stats {
	return Stats{
		FramesRx:    m.framesRx.Load(),
		ErrorsTotal: m.errorsTotal.Load(),
	}
}
