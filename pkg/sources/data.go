package sources

import (
	"fmt"
	"os"

	"github.com/atlasmode/migration-map/pkg/utils"
)

// EnsureDataset returns a local path to the migrant-stock CSV. An explicit
// path always wins; otherwise the published file is downloaded once and
// cached.
func EnsureDataset(path string) (string, error) {
	return ensure(path, MigrantStockURL, "[DATASET]")
}

// EnsureWorldGeoJSON returns a local path to the world-countries geometry.
func EnsureWorldGeoJSON(path string) (string, error) {
	return ensure(path, WorldGeoJSONURL, "[GEOMETRY]")
}

func ensure(path, url, label string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		return path, nil
	}
	return utils.CachedPath(url, label)
}
