// Package broadcast pushes market notifications to connected listeners.
// Delivery is fire-and-forget: a client that cannot keep up is dropped.
package broadcast

// Broadcaster is the engine-facing side of the hub.
type Broadcaster interface {
	BroadcastToAllRooms(message []byte)
}

// Nop drops every message. Used in tests and when WS_ENABLED=false.
type Nop struct{}

func (Nop) BroadcastToAllRooms([]byte) {}
