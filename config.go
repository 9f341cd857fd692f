package silo

// Config holds global configuration, the same package-level singleton
// shape as the teacher's Config (config.go), extended with the
// ambient capacity knobs this repo's scope adds.
var Config config = config{
	InitialEntityTableSize:   1024,
	InitialWorldRegistrySize: 4,
}

type config struct {
	// InitialEntityTableSize is the starting capacity of the
	// process-global entity table (spec.md §4.6, default 1024).
	InitialEntityTableSize int

	// InitialWorldRegistrySize is the starting capacity of the
	// process-global world registry (spec.md §4.7, default 4).
	InitialWorldRegistrySize int
}
