package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// cargoManifest is the slice of Cargo.toml this engine cares about: the
// target directory a Rust build writes into, when the project overrides
// the default "target".
type cargoManifest struct {
	Build struct {
		TargetDir string `toml:"target-dir"`
	} `toml:"build"`
}

type packageJSON struct {
	Directories struct {
		Dist string `json:"dist"`
	} `json:"directories"`
}

// DetectBuildArtifactDirs inspects well-known manifest files at root and
// returns extra directory names to fold into the ignore list, beyond
// BuiltinIgnorePatterns' static guesses ("target/debug", "target/release",
// "dist", "build").
// Grounded on the teacher's default-exclusions table, extended here to read
// the manifest instead of hardcoding a single guess.
func DetectBuildArtifactDirs(root string) []string {
	var extra []string

	if data, err := os.ReadFile(filepath.Join(root, "Cargo.toml")); err == nil {
		var m cargoManifest
		if err := toml.Unmarshal(data, &m); err == nil && m.Build.TargetDir != "" {
			extra = append(extra, m.Build.TargetDir)
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		var p packageJSON
		if err := json.Unmarshal(data, &p); err == nil && p.Directories.Dist != "" {
			extra = append(extra, p.Directories.Dist)
		}
	}

	return extra
}
