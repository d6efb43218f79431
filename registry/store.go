package registry

import (
	"fmt"
	"sync"

	"github.com/probonopd/qwlroots/errors"
)

var ErrClosed = errors.New(errors.PhaseRegistry, errors.KindInvalidState).
	Detail("registry closed").
	Build()

// store keeps entries in a slice indexed by ID-1 with a free list for
// reuse, plus an index from key to ID.
type store struct {
	entries  []entry
	freeList []ID
	index    map[uintptr]ID
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	kind  string
	key   uintptr
	valid bool
}

func newStore() *store {
	return &store{
		entries:  make([]entry, 0, 64),
		freeList: make([]ID, 0, 16),
		index:    make(map[uintptr]ID),
	}
}

func (s *store) create(key uintptr, kind string, value any) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if key == 0 {
		return 0, errors.InvalidInput(errors.PhaseRegistry, "key must not be zero")
	}
	if _, exists := s.index[key]; exists {
		return 0, errors.Duplicate(errors.PhaseRegistry, kind, fmt.Sprintf("%#x", key))
	}

	e := entry{
		value: value,
		kind:  kind,
		key:   key,
		valid: true,
	}

	var id ID
	if len(s.freeList) > 0 {
		id = s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[id-1] = e
	} else {
		s.entries = append(s.entries, e)
		id = ID(len(s.entries))
	}
	s.index[key] = id
	return id, nil
}

func (s *store) get(key uintptr) (entry, ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.index[key]
	if !ok {
		return entry{}, 0, false
	}
	return s.entries[id-1], id, true
}

func (s *store) byID(id ID) (entry, bool) {
	if id == 0 {
		return entry{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := id - 1
	if int(idx) >= len(s.entries) {
		return entry{}, false
	}
	e := s.entries[idx]
	if !e.valid {
		return entry{}, false
	}
	return e, true
}

func (s *store) drop(key uintptr) (entry, ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.index[key]
	if !ok {
		return entry{}, 0, false
	}
	delete(s.index, key)

	e := s.entries[id-1]
	s.entries[id-1] = entry{}
	s.freeList = append(s.freeList, id)
	return e, id, true
}

// drain empties the store and returns what was live, in ID order.
func (s *store) drain(close bool) ([]entry, []ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var live []entry
	var ids []ID
	for i := range s.entries {
		if s.entries[i].valid {
			live = append(live, s.entries[i])
			ids = append(ids, ID(i+1))
		}
	}

	if close {
		s.closed = true
		s.entries = nil
		s.freeList = nil
	} else {
		s.entries = s.entries[:0]
		s.freeList = s.freeList[:0]
	}
	s.index = make(map[uintptr]ID)
	return live, ids
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

func (s *store) each(fn func(ID, entry) bool) {
	s.mu.RLock()
	snapshot := make([]entry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.RUnlock()

	for i, e := range snapshot {
		if e.valid {
			if !fn(ID(i+1), e) {
				break
			}
		}
	}
}
