// Package signal provides typed, multi-listener notifications for
// managed objects and the relay that republishes native wl.Signal events
// through them.
//
// A Signal delivers synchronously on the emitting goroutine, in the order
// listeners were connected:
//
//	changed := signal.New[int]("changed")
//	conn := changed.Connect(func(v int) { fmt.Println("now", v) })
//	changed.Emit(7)
//	conn.Disconnect()
//
// Notifications with more than one argument use a struct type. Once a
// signal is closed it never delivers again.
package signal

import "sync"

// Void is the argument type of notifications that carry no data.
type Void = struct{}

// Signal is a named notification carrying a value of type T.
type Signal[T any] struct {
	name      string
	listeners []*listener[T]
	closed    bool
	mu        sync.Mutex
}

type listener[T any] struct {
	fn       func(T)
	detached bool
}

// New creates an open signal.
func New[T any](name string) *Signal[T] {
	return &Signal[T]{name: name}
}

// Name returns the notification name.
func (s *Signal[T]) Name() string {
	return s.name
}

// Connect attaches fn. On a closed signal it returns a connection that is
// already disconnected.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || fn == nil {
		return &Connection{}
	}

	l := &listener[T]{fn: fn}
	s.listeners = append(s.listeners, l)
	return &Connection{disconnect: func() { s.detach(l) }}
}

func (s *Signal[T]) detach(l *listener[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.detached = true
	for i, other := range s.listeners {
		if other == l {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Emit delivers v to every listener connected when the emission starts.
// Listeners disconnected during the emission are skipped.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	if s.closed || len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := make([]*listener[T], len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, l := range snapshot {
		if s.skip(l) {
			continue
		}
		l.fn(v)
	}
}

func (s *Signal[T]) skip(l *listener[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || l.detached
}

// Len returns the number of connected listeners.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Close disconnects every listener and disables further delivery,
// including the rest of an emission in progress.
func (s *Signal[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, l := range s.listeners {
		l.detached = true
	}
	s.listeners = nil
}

// Closed reports whether Close has been called.
func (s *Signal[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Connection is the link between a listener and its source.
type Connection struct {
	disconnect func()
	once       sync.Once
}

// Disconnect detaches the listener. It is safe to call more than once.
func (c *Connection) Disconnect() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		if c.disconnect != nil {
			c.disconnect()
		}
	})
}
