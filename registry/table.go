package registry

import (
	"sync"
)

// Table maps object addresses to live Go values with observer support.
type Table struct {
	store     *store
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		store: newStore(),
	}
}

// Insert registers value under key and returns its serial ID.
func (t *Table) Insert(key uintptr, kind string, value any) (ID, error) {
	id, err := t.store.create(key, kind, value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:  EventCreated,
		ID:    id,
		Key:   key,
		Kind:  kind,
		Value: value,
	})
	return id, nil
}

// Get retrieves the value registered under key.
func (t *Table) Get(key uintptr) (any, bool) {
	e, _, ok := t.store.get(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetKind retrieves a value only if it was registered with the given kind.
func (t *Table) GetKind(key uintptr, kind string) (any, bool) {
	e, _, ok := t.store.get(key)
	if !ok || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// IDOf returns the serial ID of the entry registered under key.
func (t *Table) IDOf(key uintptr) (ID, bool) {
	_, id, ok := t.store.get(key)
	return id, ok
}

// ByID retrieves a value by its serial ID.
func (t *Table) ByID(id ID) (any, bool) {
	e, ok := t.store.byID(id)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Remove unregisters key and returns its value. The value's Drop method
// is not called: Remove is how an object unregisters itself.
func (t *Table) Remove(key uintptr) (any, bool) {
	e, id, ok := t.store.drop(key)
	if !ok {
		return nil, false
	}

	t.notify(Event{
		Type:  EventDropped,
		ID:    id,
		Key:   key,
		Kind:  e.kind,
		Value: e.value,
	})
	return e.value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

type funcObserver struct {
	fn func(Event)
}

func (f *funcObserver) OnRegistryEvent(e Event) { f.fn(e) }

// Watch subscribes fn and returns a function that unsubscribes it.
func (t *Table) Watch(fn func(Event)) (cancel func()) {
	o := &funcObserver{fn: fn}
	t.Subscribe(o)
	return func() { t.Unsubscribe(o) }
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.store.len()
}

// CountKind returns the number of live entries of one kind.
func (t *Table) CountKind(kind string) int {
	n := 0
	t.store.each(func(_ ID, e entry) bool {
		if e.kind == kind {
			n++
		}
		return true
	})
	return n
}

// Each iterates over live entries in ID order until fn returns false.
func (t *Table) Each(fn func(id ID, key uintptr, kind string, value any) bool) {
	t.store.each(func(id ID, e entry) bool {
		return fn(id, e.key, e.kind, e.value)
	})
}

// Clear unregisters every entry, calling Drop on values that implement Dropper.
func (t *Table) Clear() {
	t.dropAll(t.store.drain(false))
}

// Close clears the table and stops accepting inserts.
func (t *Table) Close() error {
	t.dropAll(t.store.drain(true))
	return nil
}

func (t *Table) dropAll(live []entry, ids []ID) {
	for i, e := range live {
		if d, ok := e.value.(Dropper); ok {
			d.Drop()
		}
		t.notify(Event{
			Type:  EventDropped,
			ID:    ids[i],
			Key:   e.key,
			Kind:  e.kind,
			Value: e.value,
		})
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	observers := make([]Observer, len(t.observers))
	copy(observers, t.observers)
	t.obsMu.RUnlock()

	for _, o := range observers {
		o.OnRegistryEvent(e)
	}
}
