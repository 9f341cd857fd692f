package silo

// resetAll clears every process-global registry so test cases don't see
// ids/handles left behind by earlier cases in the same test binary run,
// grounded on the same full-reset shape the teacher's tests use implicitly
// by running each as its own process (the teacher has no multi-world
// registry to reset; silo's does, so reset a new global instead).
func resetAll() {
	resetComponentRegistry()
	resetGlobalEntityTable()
	resetGlobalWorldRegistry()
}

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}
