package upload

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ledongthuc/pdf"
)

// File is a locally chosen file staged for upload.
type File struct {
	Name    string
	Content []byte
}

// Size returns the content length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Content))
}

// LoadFile reads path into memory. Any regular file is accepted.
func LoadFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty file path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &File{Name: filepath.Base(path), Content: content}, nil
}

// FileInfo is what the upload page shows about a staged file.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
	// Pages is the PDF page count, zero for anything else.
	Pages int
}

// Inspect sniffs the content type and, for PDFs, counts pages.
func Inspect(f File) FileInfo {
	info := FileInfo{
		Name:        f.Name,
		Size:        f.Size(),
		ContentType: http.DetectContentType(f.Content),
	}
	if isPDF(f) {
		info.Pages = countPDFPages(f.Content)
	}
	return info
}

// Summary renders the size and page count, e.g. "12 kB, 3 pages".
func (i FileInfo) Summary() string {
	parts := []string{humanize.Bytes(uint64(i.Size))}
	switch {
	case i.Pages == 1:
		parts = append(parts, "1 page")
	case i.Pages > 1:
		parts = append(parts, fmt.Sprintf("%d pages", i.Pages))
	}
	return strings.Join(parts, ", ")
}

func isPDF(f File) bool {
	if strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
		return true
	}
	return bytes.HasPrefix(f.Content, []byte("%PDF-"))
}

// countPDFPages returns zero when the document cannot be parsed; the pdf
// reader panics on some truncated inputs.
func countPDFPages(content []byte) (pages int) {
	if len(content) == 0 {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			pages = 0
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}
