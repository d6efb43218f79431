package iface

import (
	"go.uber.org/zap"

	"github.com/probonopd/qwlroots/signal"
	"github.com/probonopd/qwlroots/wl"
)

// SignalDecl is a notification declared on a type. Every object of the
// type gets its own signal at construction.
type SignalDecl[T, H, I any] struct {
	typ     *Type[H, I]
	name    string
	index   int
	source  func(*H) *wl.Signal
	convert func(any) T
}

// DeclareSignal adds a notification carrying T to t. When source is not
// nil, each object relays the native signal it returns, converting the
// native data with convert (see signal.Relay). Notifications with more
// than one argument use a struct T.
func DeclareSignal[T, H, I any](t *Type[H, I], name string, source func(*H) *wl.Signal, convert func(any) T) *SignalDecl[T, H, I] {
	d := &SignalDecl[T, H, I]{
		typ:     t,
		name:    name,
		source:  source,
		convert: convert,
	}
	d.index = t.addSignal(d)
	return d
}

// Name returns the notification name.
func (d *SignalDecl[T, H, I]) Name() string { return d.name }

func (d *SignalDecl[T, H, I]) signalName() string { return d.name }

func (d *SignalDecl[T, H, I]) attach(o *Interface[H, I]) (closer, *signal.Connection) {
	s := signal.New[T](d.name)
	if d.source == nil {
		return s, nil
	}
	src := d.source(o.Handle())
	if src == nil {
		return s, nil
	}
	return s, signal.Relay(src, s, d.convert)
}

// Of returns the signal of one object. Before construction, and for
// objects built before the notification was declared, it returns a closed
// signal.
func (d *SignalDecl[T, H, I]) Of(owner Owner[H, I]) *signal.Signal[T] {
	o := owner.base()
	if o == nil || d.index >= len(o.signals) {
		s := signal.New[T](d.name)
		s.Close()
		return s
	}
	return o.signals[d.index].(*signal.Signal[T])
}

// Emit raises the notification on one object. Once teardown has begun the
// value is dropped.
func (d *SignalDecl[T, H, I]) Emit(owner Owner[H, I], v T) {
	o := owner.base()
	if o == nil || o.teardown || o.state != Initialized {
		Logger().Debug("notification dropped",
			zap.String("type", d.typ.name),
			zap.String("signal", d.name))
		return
	}
	d.Of(owner).Emit(v)
}
