package uwb

// Logger is the leveled logging interface the validator and decoder emit
// diagnostics on. Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Validator checks an inbound frame's addressing against the local node
// identity and the broadcast sentinels.
//
// Checks are applied in a fixed order and the first failure wins; each
// reason carries a distinct error and a distinct log line, since operator
// tooling triages on them. Rejection logging happens here, as a side effect
// of validation, so diagnostics fire even if the caller collapses outcomes
// into a single generic failure.
type Validator struct {
	identity Identity
	logger   Logger
}

// NewValidator creates a Validator for the given local identity.
// The logger may be nil, in which case rejections are silent.
func NewValidator(identity Identity, logger Logger) *Validator {
	return &Validator{identity: identity, logger: logger}
}

// Validate checks the frame header's addressing. It returns nil if the
// frame is addressed to this node, or one of the validation sentinel
// errors. It never panics.
func (v *Validator) Validate(h FrameHeader) error {
	if h.Source.PanID == Broadcast {
		v.logReject("rejected frame: broadcast source PAN", h)
		return ErrBroadcastSourcePAN
	}

	if h.Source.ShortAddr == Broadcast {
		v.logReject("rejected frame: broadcast source address", h)
		return ErrBroadcastSourceAddr
	}

	if h.Destination.PanID != h.Source.PanID {
		v.logReject("rejected frame: destination PAN does not match source PAN", h)
		return ErrPANMismatch
	}

	if h.Destination.ShortAddr != v.identity.ShortAddr {
		v.logReject("rejected frame: not addressed to this node", h)
		return ErrNotForThisNode
	}

	return nil
}

// logReject emits the rejection diagnostic if a logger is set.
func (v *Validator) logReject(msg string, h FrameHeader) {
	if v.logger == nil {
		return
	}
	v.logger.Error(msg,
		"source", h.Source.String(),
		"destination", h.Destination.String(),
	)
}
