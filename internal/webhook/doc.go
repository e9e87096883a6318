// Package webhook runs the listener that maps inbound Plex webhook events
// to configured plexrr command invocations. Each delivery is parsed,
// matched against the event dispatch table, and executed as isolated child
// processes; deliveries share no mutable state.
package webhook
