package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi there"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", f.Name)
	assert.Equal(t, "hi there", string(f.Content))
	assert.EqualValues(t, 8, f.Size())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile("")
	assert.Error(t, err)
	_, err = LoadFile(dir)
	assert.ErrorContains(t, err, "is a directory")
	_, err = LoadFile(filepath.Join(dir, "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInspectPlainFile(t *testing.T) {
	info := Inspect(File{Name: "notes.txt", Content: []byte("plain text body")})
	assert.Equal(t, "notes.txt", info.Name)
	assert.EqualValues(t, 15, info.Size)
	assert.Contains(t, info.ContentType, "text/plain")
	assert.Zero(t, info.Pages)
	assert.Equal(t, "15 B", info.Summary())
}

func TestInspectBrokenPDFDoesNotPanic(t *testing.T) {
	info := Inspect(File{Name: "broken.pdf", Content: []byte("%PDF-1.7\nnot really a pdf")})
	assert.Zero(t, info.Pages)
	assert.Equal(t, "application/pdf", info.ContentType)
}

func TestFileInfoSummaryPages(t *testing.T) {
	assert.Equal(t, "2.0 kB, 1 page", FileInfo{Size: 2000, Pages: 1}.Summary())
	assert.Equal(t, "2.0 kB, 4 pages", FileInfo{Size: 2000, Pages: 4}.Summary())
}
