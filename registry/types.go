package registry

// ID is the serial number of a registered object. ID 0 is reserved and
// always invalid.
type ID uint32

// Event types for registry lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a registry lifecycle event.
type Event struct {
	Value any
	Kind  string
	Key   uintptr
	ID    ID
	Type  EventType
}

// Observer receives notifications about registry lifecycle events.
type Observer interface {
	OnRegistryEvent(Event)
}

// Dropper is optionally implemented by registered values that need
// cleanup when the table is cleared or closed with the value still live.
type Dropper interface {
	Drop()
}
