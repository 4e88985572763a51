package uwb

import "fmt"

// Payload wire scheme: one tag byte selecting the variant, followed by the
// variant's fixed-size fields. The scheme is versionless; short input,
// an unknown tag, or trailing bytes are all decode failures.
const (
	// tagSetCell selects the SetCell variant.
	tagSetCell byte = 0x00

	// setCellLen is the encoded length of a SetCell payload:
	// tag(1) + row(1) + col(1) + r(1) + g(1) + b(1).
	setCellLen = 6
)

// RadioMessage is the closed set of application-level payload variants.
// Adding a variant requires a corresponding Event variant and a mapping
// rule in Decoder.Decode.
type RadioMessage interface {
	radioMessage()
}

// Cell is one cell-configuration value carried inside a SetCell message:
// a display cell position plus its colour. The gateway copies it through
// without interpreting it.
type Cell struct {
	Row uint8 `json:"row"`
	Col uint8 `json:"col"`
	R   uint8 `json:"r"`
	G   uint8 `json:"g"`
	B   uint8 `json:"b"`
}

// SetCell instructs the display owner to set one cell.
type SetCell struct {
	Cell Cell
}

func (SetCell) radioMessage() {}

// DecodeMessage deserializes a frame payload into a RadioMessage.
//
// Returns ErrDecodeFailed for anything that is not an exact encoding of a
// known variant. Callers treat this as a soft failure: malformed bytes from
// a noisy RF channel are expected occasionally.
func DecodeMessage(payload []byte) (RadioMessage, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecodeFailed)
	}

	switch payload[0] {
	case tagSetCell:
		if len(payload) != setCellLen {
			return nil, fmt.Errorf("%w: setcell payload is %d bytes, want %d",
				ErrDecodeFailed, len(payload), setCellLen)
		}
		return SetCell{
			Cell: Cell{
				Row: payload[1],
				Col: payload[2],
				R:   payload[3],
				G:   payload[4],
				B:   payload[5],
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown variant tag 0x%02X", ErrDecodeFailed, payload[0])
	}
}

// EncodeMessage serializes a RadioMessage to the payload wire scheme.
// It is the inverse of DecodeMessage.
func EncodeMessage(msg RadioMessage) ([]byte, error) {
	switch m := msg.(type) {
	case SetCell:
		return []byte{tagSetCell, m.Cell.Row, m.Cell.Col, m.Cell.R, m.Cell.G, m.Cell.B}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnmappedVariant, msg)
	}
}
