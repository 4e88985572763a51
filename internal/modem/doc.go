// Package modem implements the driver for a UWB modem attached over a
// serial port. It is the concrete transceiver behind the gateway's
// receive loop.
//
// # Host protocol
//
// The modem speaks a small length-prefixed protocol on its UART:
//
//	Byte 0-1: Message size (big-endian, type + payload, excludes size field)
//	Byte 2-3: Message type (big-endian)
//	Byte 4+:  Payload
//
// Message types:
//
//   - MsgListen (host → modem): start listening for one frame. No payload.
//   - MsgListenAck (modem → host): listen accepted. No payload.
//   - MsgRxFrame (modem → host): one received frame. Payload is the frame
//     wire format (8-byte addressing header + application payload).
//   - MsgRxError (modem → host): the receive operation failed. Payload is
//     an ASCII detail string.
//
// # Receive contract
//
// BeginReceive arms exactly one receive operation and returns a handle;
// Wait blocks on that handle until a frame arrives, the deadline passes
// (uwb.ErrReceiveTimeout), or the modem reports an error. The driver
// enforces that only one receive is outstanding at a time.
package modem
