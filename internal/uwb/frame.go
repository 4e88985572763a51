package uwb

import (
	"encoding/binary"
	"fmt"
)

// headerSize is the size of the addressing header on the wire:
// source PAN(2) + source addr(2) + destination PAN(2) + destination addr(2).
const headerSize = 8

// FrameHeader carries the addressing of a received frame. It is read-only
// once received.
type FrameHeader struct {
	// Source is the claimed originator of the frame.
	Source Identity

	// Destination is the addressed recipient.
	Destination Identity
}

// Frame is one received radio-layer unit: an addressing header plus an
// application payload. Frames are transient; each one is processed
// independently and then discarded.
type Frame struct {
	Header  FrameHeader
	Payload []byte
}

// ParseFrame parses a frame from its wire representation.
//
// The wire format is:
//
//	Byte 0-1: Source PAN ID (big-endian)
//	Byte 2-3: Source short address (big-endian)
//	Byte 4-5: Destination PAN ID (big-endian)
//	Byte 6-7: Destination short address (big-endian)
//	Byte 8+:  Application payload (may be empty)
//
// Returns ErrInvalidFrame if the input is too short to carry a header.
func ParseFrame(data []byte) (Frame, error) {
	if len(data) < headerSize {
		return Frame{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidFrame, len(data), headerSize)
	}

	header := FrameHeader{
		Source: Identity{
			PanID:     binary.BigEndian.Uint16(data[0:2]),
			ShortAddr: binary.BigEndian.Uint16(data[2:4]),
		},
		Destination: Identity{
			PanID:     binary.BigEndian.Uint16(data[4:6]),
			ShortAddr: binary.BigEndian.Uint16(data[6:8]),
		},
	}

	var payload []byte
	if len(data) > headerSize {
		payload = make([]byte, len(data)-headerSize)
		copy(payload, data[headerSize:])
	}

	return Frame{Header: header, Payload: payload}, nil
}

// Encode encodes the frame to its wire representation.
func (f Frame) Encode() []byte {
	buf := make([]byte, headerSize+len(f.Payload))
	binary.BigEndian.PutUint16(buf[0:2], f.Header.Source.PanID)
	binary.BigEndian.PutUint16(buf[2:4], f.Header.Source.ShortAddr)
	binary.BigEndian.PutUint16(buf[4:6], f.Header.Destination.PanID)
	binary.BigEndian.PutUint16(buf[6:8], f.Header.Destination.ShortAddr)
	copy(buf[headerSize:], f.Payload)
	return buf
}
