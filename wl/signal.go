// Package wl models the libwayland-server signal primitives that native
// objects use to publish events: wl_signal and wl_listener.
//
// A Signal holds an ordered list of listeners. Emit calls every listener
// that was attached when the emission started, skipping listeners removed
// in the meantime, which matches wl_signal_emit_mutable.
package wl

// NotifyFunc is called with the listener itself and the emitted data.
type NotifyFunc func(l *Listener, data any)

// Listener is a single callback attached to at most one Signal.
type Listener struct {
	Notify NotifyFunc

	signal  *Signal
	removed bool
}

// Signal is an event source with zero or more listeners.
type Signal struct {
	listeners []*Listener
	emitting  int
}

// Init resets the signal to an empty listener list.
func (s *Signal) Init() {
	s.listeners = nil
	s.emitting = 0
}

// Add attaches l to the end of the listener list. A listener that is
// still linked to another signal is removed from it first.
func (s *Signal) Add(l *Listener) {
	if l.signal != nil {
		l.Remove()
	}
	l.signal = s
	l.removed = false
	s.listeners = append(s.listeners, l)
}

// Remove detaches l from its signal. Removing a detached listener is a no-op.
func (l *Listener) Remove() {
	s := l.signal
	if s == nil {
		return
	}
	l.signal = nil
	l.removed = true
	for i, other := range s.listeners {
		if other == l {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Linked reports whether the listener is attached to a signal.
func (l *Listener) Linked() bool {
	return l.signal != nil
}

// Emit calls every attached listener with data, in attachment order.
func (s *Signal) Emit(data any) {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := make([]*Listener, len(s.listeners))
	copy(snapshot, s.listeners)

	s.emitting++
	defer func() { s.emitting-- }()

	for _, l := range snapshot {
		if l.removed || l.signal != s || l.Notify == nil {
			continue
		}
		l.Notify(l, data)
	}
}

// Len returns the number of attached listeners.
func (s *Signal) Len() int {
	return len(s.listeners)
}

// Emitting reports whether an emission is in progress.
func (s *Signal) Emitting() bool {
	return s.emitting > 0
}
