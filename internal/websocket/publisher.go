package websocket

// EventPublisher publishes events to the clients of a workspace. Services
// depend on this interface so tests can capture events without a hub.
type EventPublisher interface {
	Publish(workspaceID int32, event Event)
}
