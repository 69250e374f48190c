package indexcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// CacheFilePath resolves the on-disk path for root's persisted document
// (§6): <platform cache dir>/code-index/<hex16(sha256(root))>.json,
// overridable via CODE_INDEX_CACHE_DIR.
func CacheFilePath(root string) (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(root))
	name := hex.EncodeToString(sum[:])[:16] + ".json"
	return filepath.Join(dir, name), nil
}

func cacheDir() (string, error) {
	if override := os.Getenv("CODE_INDEX_CACHE_DIR"); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "code-index"), nil
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "code-index", "Cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "code-index", "Cache"), nil
	default:
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "code-index"), nil
		}
		return filepath.Join(home, ".cache", "code-index"), nil
	}
}
