package iface

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The minimal wrapped type: GetValue returns 42, changed(7) reaches two
// listeners in order, and nothing is callable after destruction.
func TestScenario_ValueAndChanged(t *testing.T) {
	c := &counter{}
	require.NoError(t, counterPlan.Construct(c, "scenario", (*[]string)(nil)))
	c.value = 42
	h := c.Handle()

	got, ok := thingGetValue(h)
	require.True(t, ok)
	assert.Equal(t, 42, got)

	var order []string
	thingChanged.Of(c).Connect(func(v int) { order = append(order, "first", strconv.Itoa(v)) })
	thingChanged.Of(c).Connect(func(v int) { order = append(order, "second", strconv.Itoa(v)) })
	thingChanged.Emit(c, 7)
	assert.Equal(t, []string{"first", "7", "second", "7"}, order)

	c.Destroy()
	assert.Nil(t, c.Handle())
	assert.Nil(t, c.Impl())
	assert.True(t, thingChanged.Of(c).Closed())
}

func TestNotify_RelayedFromNative(t *testing.T) {
	c := newCounter(t, "relay", nil)

	var got []int
	thingChanged.Of(c).Connect(func(v int) { got = append(got, v) })

	thingSetValue(c.Handle(), 7)
	assert.Equal(t, 7, c.value, "the slot ran first")
	assert.Equal(t, []int{7}, got)
	assert.Equal(t, 1, c.Handle().events.changed.Len(), "one relay listener per object")
}

func TestNotify_NoListeners(t *testing.T) {
	c := newCounter(t, "quiet", nil)
	assert.NotPanics(t, func() {
		thingChanged.Emit(c, 1)
		thingPoked.Emit(c, "hello")
		thingSetValue(c.Handle(), 2)
	})
}

func TestNotify_OwnedSignal(t *testing.T) {
	c := newCounter(t, "poke", nil)
	var got []string
	conn := thingPoked.Of(c).Connect(func(s string) { got = append(got, s) })

	thingPoked.Emit(c, "a")
	conn.Disconnect()
	thingPoked.Emit(c, "b")
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, "poked", thingPoked.Name())
}

func TestNotify_NoDeliveryAfterTeardownStarts(t *testing.T) {
	c := &counter{}
	require.NoError(t, counterPlan.Construct(c, "late", (*[]string)(nil)))
	h := c.Handle()

	var got []int
	thingChanged.Of(c).Connect(func(v int) { got = append(got, v) })
	c.BeforeDestroy().Connect(func(*thing) {
		thingChanged.Emit(c, 1)
	})

	c.Destroy()
	assert.Equal(t, []int(nil), got, "raised inside BeforeDestroy is dropped")
	assert.Equal(t, 0, h.events.changed.Len(), "relay detached from the native signal")

	thingChanged.Emit(c, 2)
	assert.Nil(t, got)
	assert.True(t, c.BeforeDestroy().Closed())
}

func TestNotify_BeforeConstruction(t *testing.T) {
	c := &counter{}
	s := thingChanged.Of(c)
	assert.True(t, s.Closed())
	assert.NotPanics(t, func() { thingChanged.Emit(c, 3) })
}
