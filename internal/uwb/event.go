package uwb

// Event is the closed set of outbound event variants. Each variant mirrors
// one RadioMessage variant, enriched with the routing metadata copied from
// the frame header that carried it.
type Event interface {
	// Kind returns the event's short kind name, used in telemetry topics.
	Kind() string

	// SourceAddr returns the short address of the node that sent the
	// originating frame.
	SourceAddr() uint16
}

// CellCommand is the outbound event for a SetCell message: the decoded cell
// plus the source and destination short addresses from the frame header.
type CellCommand struct {
	// Source is the sender's short address.
	Source uint16 `json:"source"`

	// Dest is the destination short address (this node's).
	Dest uint16 `json:"dest"`

	// Cell is the decoded cell-configuration value, copied verbatim.
	Cell Cell `json:"cell"`
}

// Kind implements Event.
func (CellCommand) Kind() string { return "setcell" }

// SourceAddr implements Event.
func (e CellCommand) SourceAddr() uint16 { return e.Source }
