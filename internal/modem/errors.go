package modem

import "errors"

// Domain errors for the modem driver.
var (
	// ErrOpenFailed is returned when the serial port cannot be opened.
	ErrOpenFailed = errors.New("modem: opening serial port failed")

	// ErrNotReady is returned when the modem does not acknowledge a listen
	// command. The gateway treats this as a start failure and backs off.
	ErrNotReady = errors.New("modem: not ready to receive")

	// ErrReceiveActive is returned when a receive operation is requested
	// while another is still outstanding.
	ErrReceiveActive = errors.New("modem: receive already in progress")

	// ErrTransport is returned when the modem reports a receive failure or
	// the serial link misbehaves.
	ErrTransport = errors.New("modem: transport error")

	// ErrInvalidMessage is returned when a host-protocol message is
	// malformed.
	ErrInvalidMessage = errors.New("modem: invalid host message")

	// ErrDesync is returned when a message stalls mid-read. The byte stream
	// can no longer be framed reliably and the receive must be abandoned.
	ErrDesync = errors.New("modem: host protocol desync")

	// ErrClosed is returned for operations on a closed modem.
	ErrClosed = errors.New("modem: closed")
)
