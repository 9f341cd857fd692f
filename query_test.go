package silo

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// entitySetup describes one entity to create for a query test: which
// components to attach, by name ("position", "velocity", "health").
type entitySetup struct {
	components []string
}

func buildEntities(world WorldHandle, position Component[Position], velocity Component[Velocity], health Component[Health], setups []entitySetup) {
	for _, s := range setups {
		e, _ := world.CreateEntity()
		for _, c := range s.components {
			switch c {
			case "position":
				position.Set(e, Position{X: 1, Y: 1})
			case "velocity":
				velocity.Set(e, Velocity{X: 2, Y: 2})
			case "health":
				health.Set(e, Health{Current: 10, Max: 10})
			}
		}
	}
}

func TestQueryFiltering(t *testing.T) {
	cases := []struct {
		name       string
		setups     []entitySetup
		queryType  string
		wantMatch  int
	}{
		{
			name: "and matches only entities with both",
			setups: []entitySetup{
				{components: []string{"position", "velocity"}},
				{components: []string{"position"}},
				{components: []string{"velocity"}},
			},
			queryType: "and",
			wantMatch: 1,
		},
		{
			name: "or matches entities with either",
			setups: []entitySetup{
				{components: []string{"position", "velocity"}},
				{components: []string{"position"}},
				{components: []string{"velocity"}},
				{components: []string{"health"}},
			},
			queryType: "or",
			wantMatch: 3,
		},
		{
			name: "not excludes entities with the component",
			setups: []entitySetup{
				{components: []string{"position"}},
				{components: []string{"health"}},
			},
			queryType: "not",
			wantMatch: 1,
		},
		{
			name: "complex and-then-not",
			setups: []entitySetup{
				{components: []string{"position", "velocity"}},
				{components: []string{"position", "velocity", "health"}},
				{components: []string{"position"}},
			},
			queryType: "complex",
			wantMatch: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetAll()
			world := CreateWorld("w")
			position := NewComponent[Position]()
			velocity := NewComponent[Velocity]()
			health := NewComponent[Health]()
			buildEntities(world, position, velocity, health, tc.setups)

			q := NewQuery()
			var node QueryNode
			switch tc.queryType {
			case "and":
				node = q.And(position, velocity)
			case "or":
				node = q.Or(position, velocity)
			case "not":
				node = q.Not(position)
			case "complex":
				node = q.And(position, velocity, q.Not(health))
			}

			cursor := NewCursor(world, node)
			got := 0
			for cursor.Next() {
				got++
			}
			if got != tc.wantMatch {
				t.Errorf("matched %d entities, want %d", got, tc.wantMatch)
			}
		})
	}
}

func TestQueryWithCursor(t *testing.T) {
	resetAll()
	world := CreateWorld("w")
	position := NewComponent[Position]()
	velocity := NewComponent[Velocity]()
	health := NewComponent[Health]()
	buildEntities(world, position, velocity, health, []entitySetup{
		{components: []string{"position", "velocity"}},
		{components: []string{"position", "velocity"}},
		{components: []string{"position"}},
	})

	q := NewQuery()
	node := q.And(position, velocity)
	cursor := NewCursor(world, node)

	looped := 0
	for cursor.Next() {
		looped++
	}
	if total := cursor.TotalMatched(); total != looped {
		t.Errorf("TotalMatched() = %d, want %d (loop count)", total, looped)
	}
	if looped != 2 {
		t.Errorf("looped = %d, want 2", looped)
	}
}

func TestQueryComponentAccess(t *testing.T) {
	resetAll()
	world := CreateWorld("w")
	position := NewComponent[Position]()
	velocity := NewComponent[Velocity]()

	e1, _ := world.CreateEntity()
	position.Set(e1, Position{X: 1, Y: 1})
	velocity.Set(e1, Velocity{X: 0.5, Y: 0.5})

	e2, _ := world.CreateEntity()
	position.Set(e2, Position{X: 5, Y: 5})
	velocity.Set(e2, Velocity{X: 1, Y: 1})

	q := NewQuery()
	node := q.And(position, velocity)
	cursor := NewCursor(world, node)

	for cursor.Next() {
		en, ok := cursor.CurrentEntity()
		if !ok {
			t.Fatal("CurrentEntity() not ok during iteration")
		}
		pos, ok := position.Get(en)
		if !ok {
			t.Fatal("position.Get() not ok for matched entity")
		}
		vel, ok := velocity.Get(en)
		if !ok {
			t.Fatal("velocity.Get() not ok for matched entity")
		}
		pos.X += vel.X
		pos.Y += vel.Y
	}

	got1, _ := position.Get(e1)
	if !almostEqual(got1.X, 1.5, 1e-9) || !almostEqual(got1.Y, 1.5, 1e-9) {
		t.Errorf("e1 position after update = %+v, want {1.5 1.5}", *got1)
	}
	got2, _ := position.Get(e2)
	if !almostEqual(got2.X, 6, 1e-9) || !almostEqual(got2.Y, 6, 1e-9) {
		t.Errorf("e2 position after update = %+v, want {6 6}", *got2)
	}
}
