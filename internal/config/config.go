// Package config holds the ambient operational settings this engine reads
// from an optional .sgi.kdl file at the project root — performance and
// logging knobs, distinct from the spec-mandated per-project
// .code-index/config.json (ignore patterns, path tiers), which
// internal/indexcache loads directly since its shape is fixed by the
// external interface this engine implements.
package config

// Config is the ambient settings document. Every field has a sane default;
// .sgi.kdl only needs to mention what it wants to override.
type Config struct {
	Performance Performance
	Logging     Logging
}

type Performance struct {
	ParallelFileWorkers int
	WatchDebounceMs     int
}

type Logging struct {
	Verbose bool
}

// Default returns the configuration used when no .sgi.kdl is present.
func Default() Config {
	return Config{
		Performance: Performance{
			ParallelFileWorkers: 4,
			WatchDebounceMs:     300,
		},
		Logging: Logging{Verbose: false},
	}
}
