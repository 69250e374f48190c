package indexcache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// BuiltinIgnorePatterns is the default ignore list (§6): dependency
// directories, build output, VCS/tool caches, and common scratch paths.
// Grounded on the teacher's default Exclude glob list in
// internal/config/config.go, trimmed to what §6 names explicitly plus the
// obvious cross-language equivalents.
func BuiltinIgnorePatterns() []string {
	return []string{
		"**/.git/**",
		"**/.hg/**",
		"**/.svn/**",
		"**/.code-index/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/.venv/**",
		"**/venv/**",
		"**/site-packages/**",
		"**/__pycache__/**",
		"**/target/debug/**",
		"**/target/release/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/coverage/**",
		"**/.next/**",
		"**/.nuxt/**",
		"**/.cache/**",
		"**/.turbo/**",
		"**/bin/**",
		"**/obj/**",
		"**/tmp/**",
		"**/.tmp/**",
		"**/*.min.js",
	}
}

// ProjectConfig is the shape of <root>/.code-index/config.json (§6).
type ProjectConfig struct {
	Ignore    []string           `json:"ignore"`
	PathTiers map[string]float64 `json:"pathTiers"`
}

// LoadProjectConfig reads the project-level ignore/path-tier config.
// A missing file is not an error — it yields a zero-value ProjectConfig.
func LoadProjectConfig(root string) (ProjectConfig, error) {
	path := filepath.Join(root, ".code-index", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ProjectConfig{}, nil
		}
		return ProjectConfig{}, err
	}
	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, err
	}
	return cfg, nil
}

// Matcher tests a project-relative path against a set of glob patterns.
type Matcher struct {
	patterns []string
}

// NewMatcher builds a Matcher over the built-in list plus any
// project-supplied patterns.
func NewMatcher(projectPatterns []string) *Matcher {
	patterns := append(append([]string{}, BuiltinIgnorePatterns()...), projectPatterns...)
	return &Matcher{patterns: patterns}
}

// Match reports whether relPath (slash-separated, relative to the project
// root) matches any ignore pattern.
func (m *Matcher) Match(relPath string) bool {
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}
