package silo

// SetCallback is invoked after a component value is written into
// storage, whether by an add (old is the type's zero value) or an
// in-place update (old is the previous value). newValue points at the
// live slot in the archetype (spec.md §4.8).
type SetCallback func(e Entity, old any, newValue any)

// RemoveCallback is invoked after a component has been removed from
// storage (or the owning entity destroyed); removed is the value that
// was present immediately before removal (spec.md §4.8).
type RemoveCallback func(e Entity, removed any)

// typeWorldData is the per-(world, type) datum: callback lists, an
// optional opaque world-scoped value, and the deferred-set value
// queue the structure-event handler drains from (spec.md C8).
//
// Go funcs have no comparable identity the way the spec's delegates
// do, so on_set/on_remove's "register" boolean (spec.md §4.8) is
// expressed idiomatically: registering returns a token, and
// unregistering tombstones that slot (set to nil) rather than
// comparing function values. Invocation iterates in registration
// order and skips tombstones, preserving the "iterates in
// registration order" design note.
type typeWorldData struct {
	setCallbacks    []SetCallback
	removeCallbacks []RemoveCallback

	datum    any
	hasDatum bool

	hasSetCallback    bool
	hasRemoveCallback bool

	// deferredSetValues holds pending new component values in FIFO
	// order, popped by SetComponent event playback (spec.md §4.9: "the
	// event record stays fixed-size" because payloads live here, not
	// in the event itself).
	deferredSetValues []any
}

func (d *typeWorldData) addSetCallback(cb SetCallback) int {
	d.setCallbacks = append(d.setCallbacks, cb)
	d.hasSetCallback = true
	return len(d.setCallbacks) - 1
}

func (d *typeWorldData) removeSetCallback(token int) {
	if token < 0 || token >= len(d.setCallbacks) {
		return
	}
	d.setCallbacks[token] = nil
	d.hasSetCallback = anyNonNilSet(d.setCallbacks)
}

func (d *typeWorldData) addRemoveCallback(cb RemoveCallback) int {
	d.removeCallbacks = append(d.removeCallbacks, cb)
	d.hasRemoveCallback = true
	return len(d.removeCallbacks) - 1
}

func (d *typeWorldData) removeRemoveCallback(token int) {
	if token < 0 || token >= len(d.removeCallbacks) {
		return
	}
	d.removeCallbacks[token] = nil
	d.hasRemoveCallback = anyNonNilRemove(d.removeCallbacks)
}

func anyNonNilSet(cbs []SetCallback) bool {
	for _, cb := range cbs {
		if cb != nil {
			return true
		}
	}
	return false
}

func anyNonNilRemove(cbs []RemoveCallback) bool {
	for _, cb := range cbs {
		if cb != nil {
			return true
		}
	}
	return false
}

func (d *typeWorldData) invokeSet(e Entity, old, newValue any) {
	for _, cb := range d.setCallbacks {
		if cb != nil {
			cb(e, old, newValue)
		}
	}
}

func (d *typeWorldData) invokeRemove(e Entity, removed any) {
	for _, cb := range d.removeCallbacks {
		if cb != nil {
			cb(e, removed)
		}
	}
}

func (d *typeWorldData) pushDeferredSet(value any) {
	d.deferredSetValues = append(d.deferredSetValues, value)
}

func (d *typeWorldData) popDeferredSet() any {
	v := d.deferredSetValues[0]
	d.deferredSetValues = d.deferredSetValues[1:]
	return v
}

// worldData is C8's dense, per-world array indexed directly by
// ComponentTypeID, grown by doubling, slots filled lazily -- the
// design notes' "avoid a hash map here" instruction, using the same
// doubling-growth primitive the teacher's globalEntities slice uses in
// storage.go.
type worldData struct {
	slots []*typeWorldData
}

func (wd *worldData) ensure(id ComponentTypeID) *typeWorldData {
	idx := int(id)
	if idx >= len(wd.slots) {
		newLen := nextPow2(idx + 1)
		grown := make([]*typeWorldData, newLen)
		copy(grown, wd.slots)
		wd.slots = grown
	}
	if wd.slots[idx] == nil {
		wd.slots[idx] = &typeWorldData{}
	}
	return wd.slots[idx]
}

func (wd *worldData) get(id ComponentTypeID) *typeWorldData {
	if int(id) >= len(wd.slots) {
		return nil
	}
	return wd.slots[id]
}
