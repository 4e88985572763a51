// Package uwb implements the radio-facing domain model for dwgate.
//
// It covers the three concerns the gateway applies to every received
// frame, in order:
//
//	Frame (modem) → Validator (addressing) → Decoder (payload) → Event
//
// # Addressing
//
// Every frame carries a source and destination Identity: a 16-bit PAN ID
// plus a 16-bit short address. The value 0xFFFF (Broadcast) is reserved
// and only ever valid in destination fields. The Validator rejects frames
// whose addressing is inconsistent with the local node identity, with one
// distinct error per failure reason so operator tooling can triage.
//
// # Payload scheme
//
// Frame payloads use a fixed, versionless binary scheme: a single tag byte
// selecting the RadioMessage variant, followed by that variant's fixed-size
// fields. The variant set is closed; decoding maps each variant to exactly
// one Event variant, enriched with the frame's source and destination
// short addresses.
//
// # Thread Safety
//
// Validator and Decoder hold no mutable state and are safe for concurrent
// use, although the gateway drives them from a single control flow.
package uwb
