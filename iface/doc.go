// Package iface binds native objects to Go managing objects.
//
// A native object is a handle struct H with one *I field, and I is a struct
// of func slots whose first parameter is *H. Code that drives the object
// only ever sees *H and calls through the slots.
//
// Declare a type once, bind it to a capability type, then construct:
//
//	var thingType = iface.MustDeclare[native.Thing, native.ThingImpl]("thing",
//		iface.WithInit(native.ThingInit),
//		iface.WithFinish(native.ThingFinish))
//
//	type Counter struct {
//		iface.Interface[native.Thing, native.ThingImpl]
//		n int
//	}
//
//	func (c *Counter) GetValue() int { return c.n }
//
//	var counterPlan = iface.MustBind[*Counter](thingType, "GetValue", "SetValue")
//
//	c := &Counter{}
//	err := counterPlan.Construct(c)
//
// Bind compares the named operations against the slots of I and the methods
// of the capability type. A method with a matching slot gets a trampoline
// installed in that slot; a slot without a method is left nil; a method
// without a slot is an error. A Destroy func(*H) slot is always bound so
// native code can end the object's life.
//
// Construction allocates the implementation and the handle, links them,
// installs the slots and calls the init entry point. Teardown runs once,
// whether started by Destroy or by native code through the destroy slot.
// It raises BeforeDestroy, closes the object's notifications, calls the
// finish entry point and releases the handle and then the implementation.
//
// Type.Get recovers the managing object from a handle received in a
// callback and panics if the handle is stale. Type.Lookup and Recover are
// the checked variants for pointers of unknown origin.
package iface
