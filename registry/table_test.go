package registry

import (
	"errors"
	"sync"
	"testing"

	qerrors "github.com/probonopd/qwlroots/errors"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnRegistryEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	id, err := table.Insert(0x1000, "buffer", "test")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	val, ok := table.Get(0x1000)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if _, ok := table.GetKind(0x1000, "buffer"); !ok {
		t.Fatal("GetKind with correct kind failed")
	}
	if _, ok := table.GetKind(0x1000, "texture"); ok {
		t.Fatal("GetKind with wrong kind should fail")
	}

	if got, ok := table.IDOf(0x1000); !ok || got != id {
		t.Fatalf("IDOf = %v, %v", got, ok)
	}
	if v, ok := table.ByID(id); !ok || v != "test" {
		t.Fatalf("ByID = %v, %v", v, ok)
	}

	val, ok = table.Remove(0x1000)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
	if _, ok := table.Remove(0x1000); ok {
		t.Fatal("second Remove should fail")
	}
	if _, ok := table.ByID(id); ok {
		t.Fatal("ByID should fail after Remove")
	}
}

func TestTable_InsertErrors(t *testing.T) {
	table := NewTable()

	if _, err := table.Insert(0, "x", 1); err == nil {
		t.Fatal("zero key should be rejected")
	}

	if _, err := table.Insert(0x10, "x", 1); err != nil {
		t.Fatal(err)
	}
	_, err := table.Insert(0x10, "x", 2)
	if !errors.Is(err, &qerrors.Error{Phase: qerrors.PhaseRegistry, Kind: qerrors.KindDuplicate}) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestTable_IDReuse(t *testing.T) {
	table := NewTable()

	id1, _ := table.Insert(0x10, "x", 1)
	table.Remove(0x10)
	id2, _ := table.Insert(0x20, "x", 2)

	if id1 != id2 {
		t.Fatalf("Expected ID reuse, got %d and %d", id1, id2)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	id, _ := table.Insert(0x10, "thing", "test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].ID != id || obs.events[0].Key != 0x10 || obs.events[0].Kind != "thing" {
		t.Fatalf("Wrong event: %+v", obs.events[0])
	}

	table.Remove(0x10)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventDropped {
		t.Fatal("Expected EventDropped")
	}

	table.Unsubscribe(obs)
	table.Insert(0x20, "thing", "test2")
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_Watch(t *testing.T) {
	table := NewTable()
	var got []EventType
	cancel := table.Watch(func(e Event) { got = append(got, e.Type) })

	table.Insert(0x10, "x", nil)
	table.Remove(0x10)
	cancel()
	table.Insert(0x20, "x", nil)

	if len(got) != 2 || got[0] != EventCreated || got[1] != EventDropped {
		t.Fatalf("unexpected events %v", got)
	}
	if EventCreated.String() != "created" || EventDropped.String() != "dropped" {
		t.Fatal("unexpected EventType strings")
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_ClearDropsLiveValues(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	table.Insert(0x10, "x", d)
	table.Insert(0x20, "x", "plain")
	table.Insert(0x30, "y", "other")

	if table.CountKind("x") != 2 {
		t.Fatalf("CountKind = %d", table.CountKind("x"))
	}

	table.Clear()

	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
	if _, err := table.Insert(0x10, "x", d); err != nil {
		t.Fatalf("Insert after Clear failed: %v", err)
	}
}

func TestTable_RemoveDoesNotDrop(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	table.Insert(0x10, "x", d)
	table.Remove(0x10)

	if d.count != 0 {
		t.Fatal("Remove must not call Drop")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	table.Insert(0x10, "x", "a")
	table.Insert(0x20, "x", "b")

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(obs.events) != 4 {
		t.Fatalf("Expected 2 created and 2 dropped events, got %d", len(obs.events))
	}

	_, err := table.Insert(0x30, "x", "c")
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	table.Insert(0x10, "x", 1)
	table.Insert(0x20, "x", 2)
	table.Insert(0x30, "x", 3)

	var keys []uintptr
	table.Each(func(_ ID, key uintptr, _ string, _ any) bool {
		keys = append(keys, key)
		return len(keys) < 2
	})
	if len(keys) != 2 || keys[0] != 0x10 || keys[1] != 0x20 {
		t.Fatalf("unexpected iteration %v", keys)
	}

	// Removing from inside Each must not deadlock.
	table.Each(func(_ ID, key uintptr, _ string, _ any) bool {
		table.Remove(key)
		return true
	})
	if table.Len() != 0 {
		t.Fatalf("Len = %d", table.Len())
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base uintptr) {
			defer wg.Done()
			for j := uintptr(1); j <= 100; j++ {
				key := base<<16 | j
				if _, err := table.Insert(key, "x", j); err != nil {
					t.Error(err)
					return
				}
				table.Get(key)
				table.Remove(key)
			}
		}(uintptr(i + 1))
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Fatalf("Len = %d after concurrent churn", table.Len())
	}
}
