package mqtt

import "fmt"

// Topic prefixes for the dwgate topic hierarchy.
//
// All topics use the flat scheme: dwgate/{category}/...
const (
	// TopicPrefixEvent is the base for decoded radio event topics.
	// Events are published as: dwgate/event/{kind}/{source_addr}
	TopicPrefixEvent = "dwgate/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "dwgate/system"
)

// Topics provides builders for dwgate MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// SystemStatus returns the gateway status topic. Online/offline payloads
// and the LWT are published here, retained.
//
// Example: dwgate/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching every decoded radio event.
// Intended for downstream subscribers.
//
// Pattern: dwgate/event/#
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/#", TopicPrefixEvent)
}

// EventsOfKind returns a pattern matching all events of one kind from any
// source node.
//
// Pattern: dwgate/event/setcell/+
func (Topics) EventsOfKind(kind string) string {
	return fmt.Sprintf("%s/%s/+", TopicPrefixEvent, kind)
}
