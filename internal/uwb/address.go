package uwb

import "fmt"

// Broadcast is the reserved 16-bit sentinel meaning "all nodes" or
// "all PANs". It is only valid in destination fields; a frame claiming
// to originate from the broadcast PAN or address is invalid.
const Broadcast uint16 = 0xFFFF

// Identity is a node's network identity: the PAN it belongs to plus its
// short address within that PAN.
type Identity struct {
	// PanID groups devices into one personal-area network.
	PanID uint16

	// ShortAddr identifies the node uniquely within its PAN.
	ShortAddr uint16
}

// String returns the identity as "pan:addr" in hex, e.g. "0386:0808".
func (id Identity) String() string {
	return fmt.Sprintf("%04X:%04X", id.PanID, id.ShortAddr)
}
