package silo

// factory implements the factory pattern the teacher's factory.go
// uses, generalized onto this package's own world/signature model.
type factory struct{}

// Factory is the global factory instance for creating silo values,
// the same package-level shape as the teacher's Factory var.
var Factory factory

// NewWorld creates a new world (see package-level CreateWorld).
func (f factory) NewWorld(name string) WorldHandle {
	return CreateWorld(name)
}

// NewQuery creates a new composable Query.
func (f factory) NewQuery() Query {
	return NewQuery()
}

// NewCursor creates a new Cursor over w matching query.
func (f factory) NewCursor(w WorldHandle, query QueryNode) *Cursor {
	return NewCursor(w, query)
}

// FactoryNewComponent creates a new Component[T] accessor for type T,
// registering T on first use (generalizes the teacher's
// FactoryNewComponent[T] off table.FactoryNewElementType[T]).
func FactoryNewComponent[T any]() Component[T] {
	return NewComponent[T]()
}

// FactoryNewCache creates a new SimpleCache with the given capacity
// (unchanged from the teacher's FactoryNewCache[T]).
func FactoryNewCache[T any](capacity int) Cache[T] {
	return newSimpleCache[T](capacity)
}
