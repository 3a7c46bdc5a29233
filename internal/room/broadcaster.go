package room

// Broadcaster fans an event out to every client subscribed to a room.
// Implementations must not block the caller indefinitely.
type Broadcaster interface {
	Broadcast(roomCode string, event string, payload interface{})
}
