package silo

// eventHandler is C9, the structure-event handler (spec.md §4.9):
// a non-negative defer-depth counter and a FIFO queue of pending
// structural mutations. Grounded on the teacher's storage.go
// Locked/AddLock/RemoveLock (one lock bit) generalized into a nested
// depth counter, and operation_queue.go's EntityOperationsQueue
// (ProcessAll draining FIFO on unlock) generalized into the full
// event-record union below.
type eventHandler struct {
	deferDepth int
	queue      []structureEvent
}

// structureEvent is one queued structural mutation. Event records stay
// fixed-size (spec.md §4.9): component values live in the per-type
// deferred-set queue (worlddata.go), not inside the event itself; apply
// is a closure bound at enqueue time over whatever the event actually
// needs (the teacher's EntityOperation.Apply(Storage) shape, adapted
// to not need a distinct type per operation kind).
type structureEvent struct {
	apply func(w *World)
}

func (h *eventHandler) begin() {
	h.deferDepth++
}

// end lowers the defer depth by one; when it reaches zero the queue
// drains in FIFO order. Each event is popped off the front before it
// is applied, because applying one event can enqueue more: a callback
// that opens and closes its own defer scope during the drain appends
// its events to the same queue, and its inner end() keeps draining
// from the front, so no event is applied twice and later events still
// run after earlier ones.
func (h *eventHandler) end(w *World) {
	if h.deferDepth == 0 {
		return
	}
	h.deferDepth--
	if h.deferDepth > 0 {
		return
	}
	for len(h.queue) > 0 {
		ev := h.queue[0]
		h.queue = h.queue[1:]
		ev.apply(w)
	}
}

func (h *eventHandler) push(e structureEvent) {
	h.queue = append(h.queue, e)
}

// deferCreateEntity implements the deferred half of "Create entity"
// (spec.md §4.9): the slot is allocated and its version bumped
// immediately, so the handle returned to the caller is not observably
// live until playback commits it. If the target archetype (recorded
// now, with the empty signature) is destroyed before playback, commit
// is cancelled and the slot is freed via the same free() path used
// everywhere else, preserving "freed index reused only with a strictly
// greater version" even for cancelled deferred creates.
func (h *eventHandler) deferCreateEntity(w *World) Entity {
	allocated := globalEntityTable.allocate()
	reservedVersion := globalEntityTable.reserve(allocated.index)
	reserved := Entity{index: allocated.index, version: reservedVersion}
	globalEntityTable.records[allocated.index].world = w
	arch := w.getOrCreateArchetype(Signature{})

	h.push(structureEvent{apply: func(w *World) {
		idx := reserved.index
		rec := &globalEntityTable.records[idx]
		if rec.version != reserved.version {
			return
		}
		if arch.IsValid() {
			slot := arch.appendEntity(reserved)
			globalEntityTable.commit(idx, arch, slot)
			w.entityCount++
		} else {
			globalEntityTable.free(idx)
		}
	}})
	return reserved
}

func createEntityImmediate(w *World) Entity {
	e := globalEntityTable.allocate()
	arch := w.getOrCreateArchetype(Signature{})
	slot := arch.appendEntity(e)
	globalEntityTable.commit(e.index, arch, slot)
	w.entityCount++
	return e
}

// requestDestroyEntity is the dispatch entry for DestroyEntity,
// immediate or deferred depending on the entity's owning world's
// current defer depth. Returns InvalidHandleError if e does not
// resolve at all (spec.md §7); a not-yet-committed e is a valid
// dispatch target, not an error (see the cancellation branch below).
func requestDestroyEntity(e Entity) error {
	rec, ok := globalEntityTable.resolveForDispatch(e)
	if !ok {
		return InvalidHandleError{Kind: "entity"}
	}
	if rec.archetype == nil {
		// e's CreateEntity is still pending in this world's queue (reserved
		// but not yet committed): cancel the reservation immediately rather
		// than enqueuing a destroy, so the pending CreateEntity's own
		// version check (events.go deferCreateEntity) sees a mismatch and
		// no-ops, and any Set/Remove/Transfer already queued against e do
		// the same when they resolve it later (spec.md §9 open question;
		// spec.md §8 scenario S4).
		globalEntityTable.free(e.index)
		return nil
	}
	w := rec.world
	if w.events.deferDepth > 0 {
		w.events.push(structureEvent{apply: func(*World) {
			destroyEntityImmediate(e)
		}})
		return nil
	}
	destroyEntityImmediate(e)
	return nil
}

// destroyEntityImmediate implements spec.md §4.9 "Destroy entity":
// snapshot remove-callback values before mutating, swap-remove across
// every column and the entity array, free the table slot, then invoke
// callbacks -- so a callback observes the entity as already destroyed
// (spec.md §4.8).
func destroyEntityImmediate(e Entity) {
	rec, ok := globalEntityTable.resolve(e)
	if !ok {
		return
	}
	arch := rec.archetype
	oldSlot := rec.slot
	srcLast := arch.entityCount - 1

	type staged struct {
		id    ComponentTypeID
		value any
	}
	var staging []staged
	for i, id := range arch.signature.IDs() {
		if td := arch.world.data.get(id); td != nil && td.hasRemoveCallback {
			staging = append(staging, staged{id, descriptorFor(id).getAny(arch.columns[i], oldSlot)})
		}
	}

	for _, col := range arch.columns {
		col.swapRemove(oldSlot, srcLast)
	}
	movedEntity := arch.entities[srcLast]
	if oldSlot != srcLast {
		arch.entities[oldSlot] = movedEntity
	}
	arch.entities[srcLast] = Entity{}
	arch.entityCount--
	if oldSlot != srcLast {
		if movedRec, ok := globalEntityTable.resolve(movedEntity); ok {
			movedRec.slot = oldSlot
		}
	}

	arch.world.entityCount--
	globalEntityTable.free(e.index)

	for _, s := range staging {
		arch.world.data.get(s.id).invokeRemove(e, s.value)
	}
}

// setComponentImmediate implements spec.md §4.9 "Set component": an
// in-place overwrite if the entity's archetype already has the column,
// otherwise the 5-step add-case structural move (resolve/create the
// target archetype, append, move every shared column, write the new
// value, invoke callbacks).
func setComponentImmediate[T any](w *World, e Entity, id ComponentTypeID, value T) {
	rec, ok := globalEntityTable.resolve(e)
	if !ok {
		return
	}
	arch := rec.archetype

	if col, present := arch.column(id); present {
		buf := col.(*typedBuffer[T])
		old := *buf.get(rec.slot)
		buf.set(rec.slot, value)
		if td := arch.world.data.get(id); td != nil && td.hasSetCallback {
			td.invokeSet(e, old, buf.get(rec.slot))
		}
		return
	}

	oldSlot := rec.slot
	w.scratch.CopyFrom(arch.signature)
	w.scratch.Add(id)
	target := w.getOrCreateArchetype(w.scratch)

	newSlot := target.appendEntity(e)
	moveColumnsAndFixEntities(arch, oldSlot, target, newSlot, 0, false)
	globalEntityTable.commit(e.index, target, newSlot)

	addedBuf, ok := target.column(id)
	if !ok {
		panicCorruption("added column missing from target archetype after set-component structural move")
	}
	typedAdded := addedBuf.(*typedBuffer[T])
	typedAdded.set(newSlot, value)

	if td := target.world.data.get(id); td != nil && td.hasSetCallback {
		var zero T
		td.invokeSet(e, zero, typedAdded.get(newSlot))
	}
}

// requestSet is Component[T].Set's dispatch entry: immediate or
// deferred depending on the entity's owning world's defer depth. The
// new value is staged in the per-type deferred-set queue so the event
// record itself need not be generic (spec.md §4.9). Returns
// InvalidHandleError if e does not resolve at all.
func requestSet[T any](e Entity, id ComponentTypeID, value T) error {
	rec, ok := globalEntityTable.resolveForDispatch(e)
	if !ok {
		return InvalidHandleError{Kind: "entity"}
	}
	w := rec.world
	if w.events.deferDepth > 0 {
		td := w.data.ensure(id)
		td.pushDeferredSet(value)
		w.events.push(structureEvent{apply: func(w *World) {
			v := td.popDeferredSet()
			descriptorFor(id).applySet(w, e, v)
		}})
		return nil
	}
	setComponentImmediate[T](w, e, id, value)
	return nil
}

// removeComponentImmediate implements spec.md §4.9 "Remove component":
// snapshot the removed value, resolve/create the target archetype
// (current signature minus id), move every other shared column,
// swap-remove the dropped column's own value, then invoke callbacks.
func removeComponentImmediate(w *World, e Entity, id ComponentTypeID) {
	rec, ok := globalEntityTable.resolve(e)
	if !ok {
		return
	}
	arch := rec.archetype
	col, present := arch.column(id)
	if !present {
		return
	}

	oldSlot := rec.slot
	srcLast := arch.entityCount - 1
	removedValue := descriptorFor(id).getAny(col, oldSlot)

	w.scratch.CopyFrom(arch.signature)
	w.scratch.Remove(id)
	target := w.getOrCreateArchetype(w.scratch)

	newSlot := target.appendEntity(e)
	moveColumnsAndFixEntities(arch, oldSlot, target, newSlot, id, true)
	col.swapRemove(oldSlot, srcLast)
	globalEntityTable.commit(e.index, target, newSlot)

	if td := target.world.data.get(id); td != nil && td.hasRemoveCallback {
		td.invokeRemove(e, removedValue)
	}
}

// requestRemove dispatches RemoveComponent, immediate or deferred.
// Returns InvalidHandleError if e does not resolve at all; a no-op
// (nil error) if e resolves but does not carry id.
func requestRemove(e Entity, id ComponentTypeID) error {
	rec, ok := globalEntityTable.resolveForDispatch(e)
	if !ok {
		return InvalidHandleError{Kind: "entity"}
	}
	w := rec.world
	if w.events.deferDepth > 0 {
		w.events.push(structureEvent{apply: func(w *World) {
			removeComponentImmediate(w, e, id)
		}})
		return nil
	}
	removeComponentImmediate(w, e, id)
	return nil
}

// transferEntityImmediate implements spec.md §4.9 "Transfer entity":
// moves an entity (and every component value) from its current world
// into the same signature's archetype in target, with no callbacks
// (transfer is a relocation, not a creation or destruction).
func transferEntityImmediate(e Entity, target WorldHandle) {
	rec, ok := globalEntityTable.resolve(e)
	if !ok {
		return
	}
	srcArch := rec.archetype
	targetWorld, ok := resolveWorld(target)
	if !ok || targetWorld == srcArch.world {
		return
	}

	oldSlot := rec.slot
	targetArch := targetWorld.getOrCreateArchetype(srcArch.signature)
	newSlot := targetArch.appendEntity(e)
	moveColumnsAndFixEntities(srcArch, oldSlot, targetArch, newSlot, 0, false)
	globalEntityTable.commit(e.index, targetArch, newSlot)

	srcArch.world.entityCount--
	targetWorld.entityCount++
}

// requestTransfer dispatches TransferEntity, immediate or deferred
// against the entity's source world. Returns InvalidHandleError if
// either e or target does not resolve; a no-op (nil error) if target
// is e's current world.
func requestTransfer(e Entity, target WorldHandle) error {
	rec, ok := globalEntityTable.resolveForDispatch(e)
	if !ok {
		return InvalidHandleError{Kind: "entity"}
	}
	if !target.IsValid() {
		return InvalidHandleError{Kind: "world"}
	}
	w := rec.world
	if w.events.deferDepth > 0 {
		w.events.push(structureEvent{apply: func(*World) {
			transferEntityImmediate(e, target)
		}})
		return nil
	}
	transferEntityImmediate(e, target)
	return nil
}

// requestDestroyArchetype dispatches DestroyArchetype.
func (h *eventHandler) requestDestroyArchetype(w *World, a *Archetype) {
	if h.deferDepth > 0 {
		h.push(structureEvent{apply: func(w *World) {
			destroyArchetypeImmediate(w, a)
		}})
		return
	}
	destroyArchetypeImmediate(w, a)
}

// destroyArchetypeImmediate implements spec.md §4.9 "Destroy
// archetype": the slot is invalidated (version bump) and every
// contained entity freed before any remove callback fires; callbacks
// are then invoked per type, iterating entities in slot order within
// that type (design note / DESIGN.md open-question decision #2 --
// cross-type ordering is unspecified by spec.md).
func destroyArchetypeImmediate(w *World, a *Archetype) {
	if !a.IsValid() {
		return
	}

	w.entityCount -= a.entityCount
	delete(w.archIndexByKey, a.signature.key())
	slot := w.archetypeSlot(a.index)
	slot.version++
	slot.archetype = nil
	w.freeArchetypeSlots = append(w.freeArchetypeSlots, a.index)
	w.archetypeStructureUpdateCount++

	entities := append([]Entity(nil), a.entities[:a.entityCount]...)

	type staged struct {
		e     Entity
		id    ComponentTypeID
		value any
	}
	var stagedAll []staged
	for i, id := range a.signature.IDs() {
		td := w.data.get(id)
		if td == nil || !td.hasRemoveCallback {
			continue
		}
		for slot := 0; slot < len(entities); slot++ {
			stagedAll = append(stagedAll, staged{entities[slot], id, descriptorFor(id).getAny(a.columns[i], slot)})
		}
	}

	for _, en := range entities {
		globalEntityTable.free(en.index)
	}
	for _, s := range stagedAll {
		w.data.get(s.id).invokeRemove(s.e, s.value)
	}
}

// requestDestroyWorld dispatches DestroyWorld.
func (h *eventHandler) requestDestroyWorld(w *World) {
	if h.deferDepth > 0 {
		h.push(structureEvent{apply: func(w *World) {
			destroyWorldImmediate(w)
		}})
		return
	}
	destroyWorldImmediate(w)
}

// destroyWorldImmediate implements spec.md §4.9 "Destroy world": the
// world handle is invalidated immediately, then every entity across
// every archetype is freed before any remove callback fires, and only
// then are callbacks invoked.
func destroyWorldImmediate(w *World) {
	if !w.handle.IsValid() {
		return
	}
	globalWorldRegistry.destroy(w.handle.index)

	type staged struct {
		e     Entity
		id    ComponentTypeID
		value any
	}
	var stagedAll []staged

	for _, s := range w.archetypeSlots {
		a := s.archetype
		if a == nil {
			continue
		}
		entities := append([]Entity(nil), a.entities[:a.entityCount]...)
		for i, id := range a.signature.IDs() {
			td := w.data.get(id)
			if td == nil || !td.hasRemoveCallback {
				continue
			}
			for slot := 0; slot < len(entities); slot++ {
				stagedAll = append(stagedAll, staged{entities[slot], id, descriptorFor(id).getAny(a.columns[i], slot)})
			}
		}
		for _, en := range entities {
			globalEntityTable.free(en.index)
		}
	}

	for _, s := range stagedAll {
		w.data.get(s.id).invokeRemove(s.e, s.value)
	}
}

// requestResize dispatches ResizeBackingArrays for a single archetype.
func (h *eventHandler) requestResize(w *World, a *Archetype) {
	if h.deferDepth > 0 {
		h.push(structureEvent{apply: func(*World) {
			if a.IsValid() {
				a.resizeBackingArrays()
			}
		}})
		return
	}
	if a.IsValid() {
		a.resizeBackingArrays()
	}
}
