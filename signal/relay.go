package signal

import "github.com/probonopd/qwlroots/wl"

// Relay republishes every emission of the native signal src on dst.
// convert maps the native data to T; when it is nil the data is asserted
// to T, and data of another type is delivered as the zero value.
func Relay[T any](src *wl.Signal, dst *Signal[T], convert func(data any) T) *Connection {
	if convert == nil {
		convert = assertTo[T]
	}
	l := &wl.Listener{
		Notify: func(_ *wl.Listener, data any) {
			dst.Emit(convert(data))
		},
	}
	src.Add(l)
	return &Connection{disconnect: l.Remove}
}

// Listen attaches fn directly to a native signal.
func Listen(src *wl.Signal, fn func(data any)) *Connection {
	l := &wl.Listener{
		Notify: func(_ *wl.Listener, data any) { fn(data) },
	}
	src.Add(l)
	return &Connection{disconnect: l.Remove}
}

func assertTo[T any](data any) T {
	v, _ := data.(T)
	return v
}
