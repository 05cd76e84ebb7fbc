package upload

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/telhawk-systems/flowsearch/internal/model"
)

// OpenSelection builds a file selection from paths on fs. Files are opened
// lazily at submission time; directories and missing paths are rejected now.
func OpenSelection(fs afero.Fs, paths []string) ([]model.FileHandle, error) {
	files := make([]model.FileHandle, 0, len(paths))
	for _, p := range paths {
		p := p // per-iteration copy; go directive is 1.21 (pre-1.22 loopvar semantics)
		info, err := fs.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot select %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("cannot select %s: is a directory", p)
		}

		files = append(files, model.FileHandle{
			Name: filepath.Base(p),
			Size: info.Size(),
			Open: func() (io.ReadCloser, error) {
				return fs.Open(p)
			},
		})
	}
	return files, nil
}

// FormatSize renders a file size for the selection list, e.g. "1.5 kB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(bytes))
}
