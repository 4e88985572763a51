package uwb

import "errors"

// Domain errors for the uwb package.
var (
	// ErrInvalidFrame is returned when a received frame is too short to
	// carry a complete addressing header.
	ErrInvalidFrame = errors.New("uwb: invalid frame")

	// ErrBroadcastSourcePAN is returned when a frame claims to originate
	// from the broadcast PAN. Broadcast is only valid in destination fields.
	ErrBroadcastSourcePAN = errors.New("uwb: broadcast source PAN")

	// ErrBroadcastSourceAddr is returned when a frame claims to originate
	// from the broadcast short address.
	ErrBroadcastSourceAddr = errors.New("uwb: broadcast source address")

	// ErrPANMismatch is returned when a frame's destination PAN differs
	// from its source PAN. Cross-PAN frames are not supported.
	ErrPANMismatch = errors.New("uwb: source/destination PAN mismatch")

	// ErrNotForThisNode is returned when a frame is addressed to a short
	// address other than this node's, even though it was physically received.
	ErrNotForThisNode = errors.New("uwb: frame not addressed to this node")

	// ErrDecodeFailed is returned when a frame payload does not deserialize
	// to any known RadioMessage variant. Malformed payloads from a noisy RF
	// channel are expected occasionally; this is a soft failure.
	ErrDecodeFailed = errors.New("uwb: payload decode failed")

	// ErrUnmappedVariant is returned when a decoded RadioMessage variant has
	// no corresponding Event variant. The variant set is closed; hitting this
	// means a new message variant was added without a mapping rule.
	ErrUnmappedVariant = errors.New("uwb: no event mapping for message variant")

	// ErrReceiveTimeout is returned by a transceiver's wait operation when
	// no frame arrives within the deadline. Timeouts are expected whenever
	// no traffic is present.
	ErrReceiveTimeout = errors.New("uwb: receive timed out")
)
