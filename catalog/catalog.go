package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File is one sellable catalog entry.
type File struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PriceSats int64  `json:"priceSats"`
}

// Catalog is the operator-maintained list of files for sale, loaded once at
// startup from a JSON file. The actual file bytes live in FilesDir.
type Catalog struct {
	FilesDir string
	files    []File
	byID     map[int64]File
}

func Load(catalogPath, filesDir string) (*Catalog, error) {
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", catalogPath, err)
	}
	var files []File
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", catalogPath, err)
	}

	byID := make(map[int64]File, len(files))
	for _, f := range files {
		if f.Name == "" || f.Name != filepath.Base(f.Name) {
			return nil, fmt.Errorf("invalid catalog entry id %d: name %q", f.ID, f.Name)
		}
		if _, exists := byID[f.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog entry id %d", f.ID)
		}
		byID[f.ID] = f
	}

	return &Catalog{
		FilesDir: filesDir,
		files:    files,
		byID:     byID,
	}, nil
}

func (c *Catalog) List() []File {
	return c.files
}

func (c *Catalog) Find(id int64) (File, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// FilePath resolves a catalog entry to its on-disk location.
func (c *Catalog) FilePath(f File) string {
	return filepath.Join(c.FilesDir, f.Name)
}
