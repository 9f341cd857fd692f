package silo

import "reflect"

// ComponentTypeID is the dense, process-global, monotonically assigned
// id for a registered component type. Ids are never reused.
type ComponentTypeID uint32

// componentDescriptor describes a registered component type: its Go
// type, a factory for a fresh type-erased column, and the closures
// that let type-erased callers (deferred SetComponent playback,
// destroy-entity/-archetype/-world callback staging) reach back into
// T-specific code without themselves being generic (spec.md §4.9 keeps
// event records fixed-size; only the type registry closes over T).
type componentDescriptor struct {
	id     ComponentTypeID
	typ    reflect.Type
	newBuf func() componentBuffer

	// applySet performs an immediate set given a boxed value, used by
	// deferred SetComponent event playback.
	applySet func(w *World, e Entity, value any)

	// getAny reads column[index] boxed as any, used to snapshot values
	// for remove-callback staging in type-erased destroy paths.
	getAny func(col componentBuffer, index int) any
}

var componentRegistry = struct {
	ids   map[reflect.Type]ComponentTypeID
	descs []componentDescriptor
}{
	ids: make(map[reflect.Type]ComponentTypeID),
}

// RegisterComponent assigns a dense id to T on first call and returns
// the same id on every subsequent call (idempotent registration).
func RegisterComponent[T any]() ComponentTypeID {
	var zero T
	typ := reflect.TypeOf(zero)
	if id, ok := componentRegistry.ids[typ]; ok {
		return id
	}
	id := ComponentTypeID(len(componentRegistry.descs))
	componentRegistry.ids[typ] = id
	componentRegistry.descs = append(componentRegistry.descs, componentDescriptor{
		id:  id,
		typ: typ,
		newBuf: func() componentBuffer {
			return newTypedBuffer[T]()
		},
		applySet: func(w *World, e Entity, value any) {
			setComponentImmediate[T](w, e, id, value.(T))
		},
		getAny: func(col componentBuffer, index int) any {
			return *(col.(*typedBuffer[T]).get(index))
		},
	})
	return id
}

// TryTypeIDFor returns the id for T if it has already been registered.
func TryTypeIDFor[T any]() (ComponentTypeID, bool) {
	var zero T
	typ := reflect.TypeOf(zero)
	id, ok := componentRegistry.ids[typ]
	return id, ok
}

// descriptorFor returns the registered descriptor for a component id.
// Lookup by id is O(1), the id space being owned entirely by this
// package (see spec.md C1).
func descriptorFor(id ComponentTypeID) *componentDescriptor {
	return &componentRegistry.descs[id]
}

// resetComponentRegistry clears process-global registry state. Exposed
// for tests that need a clean id space between cases.
func resetComponentRegistry() {
	componentRegistry.ids = make(map[reflect.Type]ComponentTypeID)
	componentRegistry.descs = nil
}
