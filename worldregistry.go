package silo

// WorldHandle is the stable external handle for a world: a pair
// (index, version) into the process-global world registry (spec.md
// §3). The zero WorldHandle is permanently invalid.
type WorldHandle struct {
	index   uint32
	version uint32
}

type worldSlot struct {
	world   *World
	version uint32
}

// worldRegistry is C7: same slot/free-list shape as the entity table,
// sized small (initial 4, doubling), grounded on the same
// globalEntryIndex pattern in the teacher's storage.go.
type worldRegistry struct {
	slots []worldSlot
	free  []uint32
	// byName caches world index by name, adapted from the teacher's
	// cache.go SimpleCache[T] (string-keyed, doubling via append) --
	// the natural home for GetOrCreate(name)/TryGetByName.
	byName *SimpleCache[uint32]
}

var globalWorldRegistry = newWorldRegistry()

func newWorldRegistry() *worldRegistry {
	r := &worldRegistry{
		slots:  make([]worldSlot, 1, initialWorldRegistrySize()),
		byName: newSimpleCache[uint32](1 << 20),
	}
	r.slots[0] = worldSlot{version: 1}
	return r
}

func initialWorldRegistrySize() int {
	if Config.InitialWorldRegistrySize > 0 {
		return Config.InitialWorldRegistrySize
	}
	return 4
}

func resetGlobalWorldRegistry() {
	globalWorldRegistry = newWorldRegistry()
}

func (r *worldRegistry) allocate() (uint32, uint32) {
	if n := len(r.free); n > 0 {
		idx := r.free[0]
		r.free = r.free[1:]
		return idx, r.slots[idx].version
	}
	idx := uint32(len(r.slots))
	if len(r.slots) == cap(r.slots) {
		grown := make([]worldSlot, len(r.slots), 2*cap(r.slots))
		copy(grown, r.slots)
		r.slots = grown
	}
	r.slots = append(r.slots, worldSlot{version: 1})
	return idx, 1
}

func (r *worldRegistry) set(index uint32, w *World) {
	r.slots[index].world = w
}

func (r *worldRegistry) resolve(h WorldHandle) (*World, bool) {
	if h.index == 0 || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.index]
	if s.version != h.version || s.world == nil {
		return nil, false
	}
	return s.world, true
}

// destroy invalidates index: bump its slot version and clear it,
// making the world invalid to outside callers immediately (spec.md
// §4.9 "Destroy world", step 1).
func (r *worldRegistry) destroy(index uint32) {
	s := &r.slots[index]
	s.version++
	name := ""
	if s.world != nil {
		name = s.world.name
	}
	s.world = nil
	r.free = append(r.free, index)
	if name != "" {
		r.byName.forget(name)
	}
}

func (r *worldRegistry) all() []WorldHandle {
	out := make([]WorldHandle, 0, len(r.slots))
	for i := 1; i < len(r.slots); i++ {
		if r.slots[i].world != nil {
			out = append(out, WorldHandle{index: uint32(i), version: r.slots[i].version})
		}
	}
	return out
}
