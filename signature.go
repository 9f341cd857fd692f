package silo

import (
	"sort"

	"github.com/TheBitDrifter/mask"
)

// maxSignatureTypes bounds the component type ids a Signature can hold
// (Add panics on an id at or above it; registration itself is not
// bounded); it mirrors the teacher's own mask.Mask256
// (storage.go's `locks mask.Mask256`), which is a fixed 256-bit set.
const maxSignatureTypes = 256

// Signature is the canonical sorted set of component type ids that
// defines an archetype (spec.md C2). Mutation is idempotent: add/
// remove of an already-(ab)sent id is a no-op. Equality and hashing
// are independent of insertion order because the id list is kept
// sorted ascending at all times.
type Signature struct {
	ids  []ComponentTypeID
	bits mask.Mask256
}

// NewSignature builds a canonical signature from a set of ids.
func NewSignature(ids ...ComponentTypeID) Signature {
	var s Signature
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id, keeping ids sorted ascending. Idempotent.
func (s *Signature) Add(id ComponentTypeID) {
	if uint32(id) >= maxSignatureTypes {
		panicCorruption("component type id exceeds maximum signature width")
	}
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		return
	}
	s.ids = append(s.ids, 0)
	copy(s.ids[i+1:], s.ids[i:])
	s.ids[i] = id
	s.bits.Mark(uint32(id))
}

// Remove deletes id if present. Idempotent.
func (s *Signature) Remove(id ComponentTypeID) {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i >= len(s.ids) || s.ids[i] != id {
		return
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	s.bits.Unmark(uint32(id))
}

// CopyFrom replaces the receiver's contents with other's.
func (s *Signature) CopyFrom(other Signature) {
	s.ids = append(s.ids[:0], other.ids...)
	s.bits = other.bits
}

// Clear empties the signature.
func (s *Signature) Clear() {
	s.ids = s.ids[:0]
	s.bits = mask.Mask256{}
}

// Contains reports whether id is a member.
func (s Signature) Contains(id ComponentTypeID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// Count returns the number of member ids.
func (s Signature) Count() int {
	return len(s.ids)
}

// IDs returns the canonical ascending id list. Callers must not mutate
// the returned slice.
func (s Signature) IDs() []ComponentTypeID {
	return s.ids
}

// Mask returns the cached fast-path bitmask, used by query evaluation
// the way the teacher's query.go compares archeMask against nodeMask.
func (s Signature) Mask() mask.Mask256 {
	return s.bits
}

// Equals reports id-by-id equality (spec.md §3: "equal iff they
// contain the same ids").
func (s Signature) Equals(other Signature) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}

// Hash folds the ordered id list into a deterministic 64-bit value
// (FNV-1a), independent of insertion order.
func (s Signature) Hash() uint64 {
	var h uint64 = 14695981039346656037
	for _, id := range s.ids {
		h ^= uint64(id)
		h *= 1099511628211
	}
	return h
}

// key builds the exact canonical byte encoding of the id list, used as
// the signature -> archetype map key in World. Using the exact
// encoding rather than the folded Hash avoids relying on Hash being
// collision-free.
func (s Signature) key() string {
	buf := make([]byte, len(s.ids)*4)
	for i, id := range s.ids {
		buf[i*4] = byte(id)
		buf[i*4+1] = byte(id >> 8)
		buf[i*4+2] = byte(id >> 16)
		buf[i*4+3] = byte(id >> 24)
	}
	return string(buf)
}
