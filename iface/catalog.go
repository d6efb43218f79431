package iface

import (
	"sort"
	"sync"
)

// SlotInfo describes one implementation slot.
type SlotInfo struct {
	Name      string
	Signature string
	Destroy   bool
}

// OpInfo is one operation of a plan.
type OpInfo struct {
	Name    string
	Binding OpBinding
}

// PlanInfo describes a plan built by Bind.
type PlanInfo struct {
	Capability string
	Ops        []OpInfo
}

// TypeInfo describes a declared type.
type TypeInfo struct {
	Name      string
	Handle    string
	Impl      string
	ImplField string
	Init      string
	Finish    string
	Slots     []SlotInfo
	Signals   []string
	Plans     []PlanInfo
	Live      int
}

type describer interface {
	Info() TypeInfo
}

var catalog struct {
	mu    sync.Mutex
	types []describer
}

func register(d describer) {
	catalog.mu.Lock()
	catalog.types = append(catalog.types, d)
	catalog.mu.Unlock()
}

// Catalog describes every declared type, sorted by name.
func Catalog() []TypeInfo {
	catalog.mu.Lock()
	types := append([]describer(nil), catalog.types...)
	catalog.mu.Unlock()

	infos := make([]TypeInfo, 0, len(types))
	for _, d := range types {
		infos = append(infos, d.Info())
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Info describes the type, its plans and how many of its objects are live.
func (t *Type[H, I]) Info() TypeInfo {
	info := TypeInfo{
		Name:      t.name,
		Handle:    t.handleType.String(),
		Impl:      t.implType.String(),
		ImplField: t.implField,
		Finish:    t.finishName,
		Live:      live.CountKind(t.name),
	}
	if t.init != nil {
		info.Init = t.init.name
	}
	for _, s := range t.slots {
		info.Slots = append(info.Slots, SlotInfo{
			Name:      s.name,
			Signature: s.typ.String(),
			Destroy:   s.index == t.destroy,
		})
	}

	t.mu.Lock()
	for _, s := range t.signals {
		info.Signals = append(info.Signals, s.signalName())
	}
	info.Plans = append(info.Plans, t.plans...)
	t.mu.Unlock()
	return info
}
