package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner finds case tables
type Scanner struct {
	skipDirs  map[string]bool
	skipFiles map[string]bool
}

// NewScanner creates a new Scanner with the given directories and file names to skip
func NewScanner(skipDirs []string, skipFiles ...string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	files := make(map[string]bool)
	for _, name := range skipFiles {
		files[filepath.Base(name)] = true
	}
	return &Scanner{skipDirs: skipMap, skipFiles: files}
}

// Scan returns root itself when it is a file, otherwise every .csv table below it
func (s *Scanner) Scan(root string) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cases path does not exist: %s", root)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var tables []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.skipFiles[d.Name()] {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".csv") {
			tables = append(tables, path)
		}
		return nil
	})

	return tables, err
}
