// Package telemetry publishes decoded radio events on the structured data
// channel (MQTT), distinct from the leveled text-log channel.
//
// Each event is wrapped in a small JSON envelope carrying the event kind
// and a timestamp, and published to a per-kind, per-source topic:
//
//	dwgate/event/setcell/0x0101
//
// The sink never retains event messages; a subscriber joining late sees
// only traffic from that point on.
package telemetry
