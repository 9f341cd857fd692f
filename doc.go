/*
Package silo implements a sparse-archetype entity-component-system
storage core: archetype storage, a process-global entity table, a
process-global world registry, per-type world data and lifecycle
callbacks, and a structure-event scheduler for deferred structural
mutations. It is built on an archetype-based storage model that keeps
entities with the same component set together for cache-friendly
iteration.

Core Concepts:

  - World: an isolated collection of entities, archetypes, and
    per-type data. Multiple worlds may coexist in one process.
  - Entity: a stable (index, version) handle to a single object.
  - Component: a Go type registered once and stored column-wise.
  - Archetype: storage for every entity sharing one exact component
    signature.
  - Query: a composable filter over archetype signatures.

Basic Usage:

	world := silo.CreateWorld("game")

	position := silo.NewComponent[Position]()
	velocity := silo.NewComponent[Velocity]()

	e, _ := world.CreateEntity()
	position.Set(e, Position{})
	velocity.Set(e, Velocity{X: 1})

	query := silo.NewQuery()
	node := query.And(position, velocity)
	cursor := silo.NewCursor(world, node)

	for cursor.Next() {
		en, _ := cursor.CurrentEntity()
		pos, _ := position.Get(en)
		vel, _ := velocity.Get(en)
		pos.X += vel.X
		pos.Y += vel.Y
	}
*/
package silo
