package silo

import "testing"

func TestEntityCreation(t *testing.T) {
	cases := []struct {
		name string
	}{
		{name: "single entity"},
		{name: "multiple entities"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetAll()
			world := CreateWorld("w")

			e, _ := world.CreateEntity()
			if !e.IsValid() {
				t.Fatal("created entity is not valid")
			}
			sig, ok := e.Signature()
			if !ok {
				t.Fatal("Signature() not ok for freshly created entity")
			}
			if sig.Count() != 0 {
				t.Errorf("fresh entity signature count = %d, want 0", sig.Count())
			}
			if got := world.EntityCount(); got != 1 {
				t.Errorf("world.EntityCount() = %d, want 1", got)
			}

			e2, _ := world.CreateEntity()
			if e2 == e {
				t.Error("second entity handle equals the first")
			}
			if got := world.EntityCount(); got != 2 {
				t.Errorf("world.EntityCount() = %d, want 2", got)
			}
		})
	}
}

func TestComponentAddRemove(t *testing.T) {
	resetAll()
	world := CreateWorld("w")
	position := NewComponent[Position]()
	velocity := NewComponent[Velocity]()

	e, _ := world.CreateEntity()
	position.Set(e, Position{X: 1, Y: 2})

	sig, _ := e.Signature()
	if !sig.Contains(position.ID()) {
		t.Fatal("signature missing Position after Set")
	}
	if !position.Has(e) {
		t.Error("Has(Position) = false after Set")
	}

	velocity.Set(e, Velocity{X: 3, Y: 4})
	sig, _ = e.Signature()
	if sig.Count() != 2 {
		t.Fatalf("signature count = %d after adding two components, want 2", sig.Count())
	}
	if !sig.Contains(position.ID()) || !sig.Contains(velocity.ID()) {
		t.Error("signature missing one of Position/Velocity after both Set")
	}

	position.Remove(e)
	if position.Has(e) {
		t.Error("Has(Position) = true after Remove")
	}
	if !velocity.Has(e) {
		t.Error("Has(Velocity) = false after removing a sibling component")
	}
	sig, _ = e.Signature()
	if sig.Count() != 1 {
		t.Errorf("signature count = %d after Remove, want 1", sig.Count())
	}
}

func TestComponentValues(t *testing.T) {
	resetAll()
	world := CreateWorld("w")
	position := NewComponent[Position]()

	e, _ := world.CreateEntity()
	want := Position{X: 10, Y: 20}
	position.Set(e, want)

	got, ok := position.Get(e)
	if !ok {
		t.Fatal("Get(Position) not ok after Set")
	}
	if *got != want {
		t.Errorf("Get(Position) = %+v, want %+v", *got, want)
	}

	got.X = 99
	reread, _ := position.Get(e)
	if reread.X != 99 {
		t.Error("pointer returned by Get does not alias live storage")
	}

	position.Set(e, Position{X: 1, Y: 1})
	reread, _ = position.Get(e)
	if *reread != (Position{X: 1, Y: 1}) {
		t.Errorf("Get(Position) after overwrite = %+v, want {1 1}", *reread)
	}
}
