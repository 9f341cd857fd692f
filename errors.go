package silo

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// MissingWorldDataError is returned by GetWorldData (and SetWorldData)
// when the world handle
// used to address the per-type datum is itself invalid. Spec.md §7
// calls this out explicitly as a recoverable failure, distinct from
// the silent no-ops every mutating entry point performs on a stale
// handle.
type MissingWorldDataError struct {
	World WorldHandle
}

func (e MissingWorldDataError) Error() string {
	return fmt.Sprintf("world %v is not valid: no per-type data available", e.World)
}

// InvalidHandleError is returned (never panicked) when a mutating entry
// point -- WorldHandle.CreateEntity, Entity.Destroy/Transfer,
// Component[T].Set/Remove, and the other WorldHandle structural
// operations -- resolves a stale or zero handle. Kind names which kind
// of handle was rejected ("entity" or "world"), since the handle's own
// fields carry nothing useful once stale (spec.md §7).
type InvalidHandleError struct {
	Kind string
}

func (e InvalidHandleError) Error() string {
	return fmt.Sprintf("%s handle is invalid", e.Kind)
}

// panicCorruption reports a bug-class assertion failure: a violated
// internal invariant that cannot be reached through any valid public
// sequence of calls (spec.md §7). It is fatal, never a returned error,
// and traced via bark the way the teacher traces programmer errors in
// entity.go and query.go.
func panicCorruption(msg string) {
	panic(bark.AddTrace(fmt.Errorf("silo: internal invariant violated: %s", msg)))
}
