package iface

// State is the lifecycle position of a managing object.
type State uint8

const (
	Unallocated State = iota
	PairAllocated
	BoundLinked
	Initialized
	Finished
	Freed
)

func (s State) String() string {
	switch s {
	case Unallocated:
		return "Unallocated"
	case PairAllocated:
		return "PairAllocated"
	case BoundLinked:
		return "BoundLinked"
	case Initialized:
		return "Initialized"
	case Finished:
		return "Finished"
	case Freed:
		return "Freed"
	}
	return "Unknown"
}

// OpBinding describes what a plan did with one named operation.
type OpBinding uint8

const (
	// Absent: neither the implementation nor the capability has the operation.
	Absent OpBinding = iota
	// Disabled: the slot exists but the capability does not implement it,
	// so the slot is left nil.
	Disabled
	// Bound: the slot receives a trampoline to the capability's method.
	Bound
)

func (b OpBinding) String() string {
	switch b {
	case Absent:
		return "absent"
	case Disabled:
		return "disabled"
	case Bound:
		return "bound"
	}
	return "unknown"
}
