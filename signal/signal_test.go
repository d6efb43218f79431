package signal

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probonopd/qwlroots/wl"
)

func TestSignal_NoListeners(t *testing.T) {
	s := New[int]("changed")
	assert.NotPanics(t, func() { s.Emit(1) })
	assert.Equal(t, "changed", s.Name())
	assert.Equal(t, 0, s.Len())
}

func TestSignal_DeliversInOrder(t *testing.T) {
	s := New[int]("changed")

	var got []string
	s.Connect(func(v int) { got = append(got, "first", strconv.Itoa(v)) })
	s.Connect(func(v int) { got = append(got, "second", strconv.Itoa(v)) })
	s.Connect(func(v int) { got = append(got, "third", strconv.Itoa(v)) })

	s.Emit(7)
	assert.Equal(t, []string{"first", "7", "second", "7", "third", "7"}, got)
}

func TestSignal_DisconnectDuringEmit(t *testing.T) {
	s := New[Void]("tick")

	var got []int
	var second *Connection
	s.Connect(func(Void) {
		got = append(got, 1)
		second.Disconnect()
	})
	second = s.Connect(func(Void) { got = append(got, 2) })

	s.Emit(Void{})
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, s.Len())

	second.Disconnect()
	assert.Equal(t, 1, s.Len(), "second Disconnect is a no-op")
}

func TestSignal_ConnectDuringEmit(t *testing.T) {
	s := New[int]("x")
	late := 0
	s.Connect(func(int) {
		s.Connect(func(int) { late++ })
	})

	s.Emit(1)
	assert.Equal(t, 0, late)
	s.Emit(2)
	assert.Equal(t, 1, late)
}

func TestSignal_Close(t *testing.T) {
	s := New[int]("x")
	calls := 0
	s.Connect(func(int) {
		calls++
		s.Close()
	})
	s.Connect(func(int) { calls++ })

	s.Emit(1)
	assert.Equal(t, 1, calls, "close stops the emission in progress")
	assert.True(t, s.Closed())

	s.Emit(2)
	assert.Equal(t, 1, calls)

	c := s.Connect(func(int) { calls++ })
	require.NotNil(t, c)
	c.Disconnect()
	s.Emit(3)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Len())
}

func TestRelay(t *testing.T) {
	var native wl.Signal
	native.Init()

	dst := New[int]("changed")
	var got []int
	dst.Connect(func(v int) { got = append(got, v) })

	conn := Relay(&native, dst, nil)
	native.Emit(3)
	native.Emit("not an int")
	assert.Equal(t, []int{3, 0}, got)

	conn.Disconnect()
	assert.Equal(t, 0, native.Len())
	native.Emit(4)
	assert.Equal(t, []int{3, 0}, got)
}

func TestRelay_Convert(t *testing.T) {
	var native wl.Signal
	type pair struct{ A, B int }

	dst := New[pair]("moved")
	var got pair
	dst.Connect(func(p pair) { got = p })

	Relay(&native, dst, func(data any) pair {
		xy := data.([2]int)
		return pair{xy[0], xy[1]}
	})
	native.Emit([2]int{4, 5})
	assert.Equal(t, pair{4, 5}, got)
}

func TestListen(t *testing.T) {
	var native wl.Signal
	var got any
	conn := Listen(&native, func(data any) { got = data })
	native.Emit("hello")
	assert.Equal(t, "hello", got)
	conn.Disconnect()
	conn.Disconnect()
	assert.Equal(t, 0, native.Len())

	var nilConn *Connection
	assert.NotPanics(t, nilConn.Disconnect)
}
