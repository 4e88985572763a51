// Package gateway implements dwgate's receive loop: the state machine that
// drives the modem, validates and decodes each received frame, and
// republishes the result as a structured event.
//
// # State machine
//
// Each loop iteration moves Idle → AwaitingFrame → one of four outcomes,
// and every outcome returns to Idle:
//
//	Dispatch       frame received: validate → decode → publish
//	TimedOut       no frame within the receive timeout (info log, retry now)
//	HardwareError  transceiver fault (error log, retry now)
//	StartFailed    receive could not be armed (warn, back off, retry)
//
// The loop always makes progress toward the next receive attempt. Exactly
// one receive operation is outstanding at a time, and frames are processed
// strictly in arrival order from a single control flow.
//
// # Collaborators
//
// The gateway exclusively owns its collaborator handles for its entire
// lifetime: the Transceiver (radio) and the telemetry pair of Logger (text
// channel) and EventSink (structured data channel). The contracts are
// defined here, as narrow interfaces, so drivers and sinks stay mockable.
package gateway
