package modem

import (
	"encoding/binary"
	"fmt"
)

// Host-protocol message types.
const (
	// MsgListen starts a single receive operation on the modem.
	MsgListen uint16 = 0x0010

	// MsgListenAck acknowledges a listen command.
	MsgListenAck uint16 = 0x0011

	// MsgRxFrame carries one received radio frame to the host.
	MsgRxFrame uint16 = 0x0020

	// MsgRxError reports a failed receive operation. The payload is an
	// ASCII detail string.
	MsgRxError uint16 = 0x0021
)

// wireHeaderSize is the size of the host message header (size + type).
const wireHeaderSize = 4

// EncodeHostMessage wraps a payload in the host message format.
//
// The size field counts type + payload and excludes itself.
func EncodeHostMessage(msgType uint16, payload []byte) []byte {
	buf := make([]byte, wireHeaderSize+len(payload))
	binary.BigEndian.PutUint16(buf[0:2], uint16(2+len(payload)))
	binary.BigEndian.PutUint16(buf[2:4], msgType)
	copy(buf[4:], payload)
	return buf
}

// ParseHostMessage parses a complete host message.
//
// Returns ErrInvalidMessage if the declared size does not match the input.
func ParseHostMessage(data []byte) (msgType uint16, payload []byte, err error) {
	if len(data) < wireHeaderSize {
		return 0, nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidMessage, len(data), wireHeaderSize)
	}

	declared := binary.BigEndian.Uint16(data[0:2])
	if int(declared) != len(data)-2 {
		return 0, nil, fmt.Errorf("%w: size mismatch (declared %d, have %d)",
			ErrInvalidMessage, declared, len(data)-2)
	}

	msgType = binary.BigEndian.Uint16(data[2:4])
	if len(data) > wireHeaderSize {
		payload = data[wireHeaderSize:]
	}
	return msgType, payload, nil
}
