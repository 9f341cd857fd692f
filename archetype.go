package silo

// ArchetypeHandle addresses an archetype slot in a world's archetype
// slot array (spec.md §3: "a pair (world, index, version)").
type ArchetypeHandle struct {
	World   WorldHandle
	Index   int
	Version uint32
}

// Archetype is the container for every entity sharing one signature:
// a signature, one component buffer per member type, and a parallel
// entity-handle column (spec.md C4). Grounded on the teacher's
// archetype.go (id + table fields) generalized off table.Table.
type Archetype struct {
	world   *World
	index   int
	version uint32

	signature Signature
	columnIdx map[ComponentTypeID]int
	columns   []componentBuffer

	entities    []Entity
	entityCount int
	capacity    int
}

func newArchetype(w *World, index int, version uint32, sig Signature) *Archetype {
	ids := sig.IDs()
	a := &Archetype{
		world:     w,
		index:     index,
		version:   version,
		signature: sig,
		columnIdx: make(map[ComponentTypeID]int, len(ids)),
		columns:   make([]componentBuffer, len(ids)),
	}
	for i, id := range ids {
		a.columnIdx[id] = i
		a.columns[i] = descriptorFor(id).newBuf()
	}
	return a
}

// Handle returns the stable external handle for this archetype.
func (a *Archetype) Handle() ArchetypeHandle {
	return ArchetypeHandle{World: a.world.handle, Index: a.index, Version: a.version}
}

// IsValid reports whether this archetype pointer still addresses a
// live slot (i.e. has not been destroyed and replaced/reused).
func (a *Archetype) IsValid() bool {
	if a == nil || a.world == nil {
		return false
	}
	slot := a.world.archetypeSlot(a.index)
	return slot != nil && slot.archetype == a && slot.version == a.version
}

// Signature returns the archetype's canonical component signature.
func (a *Archetype) Signature() Signature {
	return a.signature
}

// EntityCount returns the logical number of live entities (spec.md §3
// invariant: entity_count <= capacity, shared by every column).
func (a *Archetype) EntityCount() int {
	return a.entityCount
}

// Entities returns the parallel entity-handle column, valid for
// indices [0, EntityCount()).
func (a *Archetype) Entities() []Entity {
	return a.entities[:a.entityCount]
}

// column returns the typed buffer for id and whether it is present.
func (a *Archetype) column(id ComponentTypeID) (componentBuffer, bool) {
	i, ok := a.columnIdx[id]
	if !ok {
		return nil, false
	}
	return a.columns[i], true
}

// ensureCapacity grows every column and the entities array uniformly
// so that indices [0, n) are valid (spec.md §4.4).
func (a *Archetype) ensureCapacity(n int) {
	if n <= a.capacity {
		return
	}
	newCap := nextPow2(n)
	grown := make([]Entity, newCap)
	copy(grown, a.entities)
	a.entities = grown
	for _, col := range a.columns {
		col.ensureCapacity(newCap)
	}
	a.capacity = newCap
}

// resizeBackingArrays sets capacity to the smallest power of two >=
// entity_count (minimum 8), rewriting every column (spec.md §4.4). It
// is the only operation that may shrink capacity.
func (a *Archetype) resizeBackingArrays() {
	target := nextPow2(a.entityCount)
	grown := make([]Entity, target)
	copy(grown, a.entities[:a.entityCount])
	a.entities = grown
	for i, col := range a.columns {
		a.columns[i] = col.resized(target, a.entityCount)
	}
	a.capacity = target
}

// appendEntity grows capacity if needed and places e at the next free
// slot, returning that slot index.
func (a *Archetype) appendEntity(e Entity) int {
	a.ensureCapacity(a.entityCount + 1)
	slot := a.entityCount
	a.entities[slot] = e
	a.entityCount++
	return slot
}

// swapRemoveAt removes the entity at slot via swap-remove across every
// column and the entity array. It returns the handle of whichever
// entity ended up occupying slot afterward (the zero Entity, if slot
// was the last live slot) and whether a different entity was moved into slot
// (in which case the caller must fix that entity's record.slotIndex).
func (a *Archetype) swapRemoveAt(slot int) (occupant Entity, moved bool) {
	last := a.entityCount - 1
	moved = slot != last
	for _, col := range a.columns {
		col.swapRemove(slot, last)
	}
	a.entities[slot] = a.entities[last]
	a.entities[last] = Entity{}
	a.entityCount--
	return a.entities[slot], moved
}

// destroy requests the owning world destroy this archetype, routed
// through the structure-event handler (spec.md §4.4).
func (a *Archetype) destroy() {
	a.world.events.requestDestroyArchetype(a.world, a)
}

// ResizeBackingArrays requests this single archetype be resized,
// routed through the structure-event handler like every other
// structural mutation (spec.md §4.9 "Resize backing arrays").
func (a *Archetype) ResizeBackingArrays() {
	a.world.events.requestResize(a.world, a)
}

// Destroy requests this archetype be destroyed.
func (a *Archetype) Destroy() {
	a.destroy()
}

// moveColumnsAndFixEntities moves every column present in src (except
// skipID, if hasSkip) from src[oldSlot] into dst[newSlot] via each
// column's cross-buffer move, then performs the matching swap-remove
// on src's parallel entity array and fixes up the moved occupant's
// table record. It is the shared core of the add/remove/transfer
// structural moves (spec.md §4.9 steps 1-4 of each), none of which
// need the component's static type -- componentBuffer is already
// fully type-erased for this purpose.
func moveColumnsAndFixEntities(src *Archetype, oldSlot int, dst *Archetype, newSlot int, skipID ComponentTypeID, hasSkip bool) {
	srcLast := src.entityCount - 1
	ids := src.signature.IDs()
	for i, id := range ids {
		if hasSkip && id == skipID {
			continue
		}
		dstBuf, ok := dst.column(id)
		if !ok {
			panicCorruption("target archetype missing expected column during structural move")
		}
		src.columns[i].moveTo(oldSlot, srcLast, dstBuf, newSlot)
	}

	movedEntity := src.entities[srcLast]
	if oldSlot != srcLast {
		src.entities[oldSlot] = movedEntity
	}
	src.entities[srcLast] = Entity{}
	src.entityCount--
	if oldSlot != srcLast {
		if movedRec, ok := globalEntityTable.resolve(movedEntity); ok {
			movedRec.slot = oldSlot
		}
	}
}
