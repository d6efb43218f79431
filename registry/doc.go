// Package registry tracks live objects that native code knows by address.
//
// Every handle that has been handed to the native library is registered
// under its address, so code that receives a bare pointer can check
// whether it belongs to a live object before trusting it:
//
//	table := registry.NewTable()
//
//	// Register a value under the handle address
//	id, err := table.Insert(uintptr(unsafe.Pointer(h)), "buffer", obj)
//
//	// Retrieve it from a pointer received in a callback
//	value, ok := table.Get(uintptr(unsafe.Pointer(h)))
//
//	// Unregister during teardown
//	value, ok := table.Remove(uintptr(unsafe.Pointer(h)))
//
// # Kinds
//
// Entries carry a kind string, usually the declared type name, so a
// lookup can reject a pointer of the wrong type:
//
//	value, ok := table.GetKind(key, "texture")
//
// # Observers
//
// Register observers to follow object lifecycles:
//
//	cancel := table.Watch(func(e registry.Event) {
//	    log.Printf("%s %s #%d", e.Kind, e.Type, e.ID)
//	})
//	defer cancel()
//
// # Leaks
//
// Entries are not garbage collected. Objects remove themselves when torn
// down; Clear and Close call Drop on values still registered, which is how
// leftover objects are torn down when the table is retired. The caller must
// keep the registered objects reachable while their keys are live.
package registry
