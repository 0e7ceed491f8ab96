package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": 1, "name": "file1.pdf", "priceSats": 10000},
		{"id": 2, "name": "file2.pdf", "priceSats": 20000}
	]`)

	c, err := Load(path, "/srv/files")
	assert.NoError(t, err)
	assert.Len(t, c.List(), 2)

	f, ok := c.Find(1)
	assert.True(t, ok)
	assert.Equal(t, "file1.pdf", f.Name)
	assert.Equal(t, int64(10000), f.PriceSats)
	assert.Equal(t, filepath.Join("/srv/files", "file1.pdf"), c.FilePath(f))

	_, ok = c.Find(42)
	assert.False(t, ok)
}

func TestLoadCatalogRejectsDuplicateIds(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": 1, "name": "a.txt", "priceSats": 10},
		{"id": 1, "name": "b.txt", "priceSats": 10}
	]`)

	_, err := Load(path, "files")
	assert.Error(t, err)
}

func TestLoadCatalogRejectsPathTraversalNames(t *testing.T) {
	path := writeCatalog(t, `[{"id": 1, "name": "../../etc/passwd", "priceSats": 10}]`)

	_, err := Load(path, "files")
	assert.Error(t, err)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), "files")
	assert.Error(t, err)
}
