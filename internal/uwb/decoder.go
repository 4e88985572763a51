package uwb

import "fmt"

// Decoder turns a validated frame into an outbound Event: it deserializes
// the payload into a RadioMessage and maps the variant to its Event
// counterpart, copying the header's source and destination short addresses
// into the event's routing fields.
type Decoder struct {
	logger Logger
}

// NewDecoder creates a Decoder. The logger may be nil, in which case decode
// failures are silent.
func NewDecoder(logger Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode decodes the frame's payload and maps it to an Event.
//
// A payload that does not deserialize returns ErrDecodeFailed and emits a
// warning; malformed bytes from a noisy channel are a soft failure, not a
// protocol violation. The variant mapping is exhaustive: a RadioMessage
// variant without an Event counterpart returns ErrUnmappedVariant rather
// than being dropped silently.
func (d *Decoder) Decode(frame Frame) (Event, error) {
	msg, err := DecodeMessage(frame.Payload)
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("failed to decode payload",
				"source", frame.Header.Source.String(),
				"error", err,
			)
		}
		return nil, err
	}

	switch m := msg.(type) {
	case SetCell:
		return CellCommand{
			Source: frame.Header.Source.ShortAddr,
			Dest:   frame.Header.Destination.ShortAddr,
			Cell:   m.Cell,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnmappedVariant, msg)
	}
}
