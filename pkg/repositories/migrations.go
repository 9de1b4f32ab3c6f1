package repositories

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type migration struct {
	path string
	sql  string
}

// readMigrations returns the .sql files of a directory in name order.
func readMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	migrations := make([]migration, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", path, err)
		}
		migrations = append(migrations, migration{path: path, sql: string(b)})
	}
	return migrations, nil
}
