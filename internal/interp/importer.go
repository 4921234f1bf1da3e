package interp

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"
)

// Importer resolves the path of an @import relative to the importing sheet and returns
// the canonical name and source text of the imported sheet.
type Importer interface {
	Import(from, target string) (name, src string, err error)
}

// FSImporter reads imports from a filesystem. Paths are slash-separated and relative to
// the importing sheet; paths starting with / are relative to Root. A path without an
// extension also tries .scss and .css.
type FSImporter struct {
	FS   hackpadfs.FS
	Root string
}

var importExts = []string{"", ".scss", ".css"}

func (f *FSImporter) Import(from, target string) (string, string, error) {
	var name string
	if strings.HasPrefix(target, "/") {
		name = path.Join(f.Root, target)
	} else {
		dir := f.Root
		if from != "" {
			dir = path.Dir(from)
		}
		name = path.Join(dir, target)
	}
	name = strings.TrimPrefix(name, "/")
	if name == "" || !fs.ValidPath(name) {
		return "", "", fmt.Errorf("invalid import path %q", target)
	}

	tries := importExts
	if path.Ext(name) != "" {
		tries = importExts[:1]
	}
	for _, ext := range tries {
		b, err := hackpadfs.ReadFile(f.FS, name+ext)
		if err == nil {
			return name + ext, string(b), nil
		}
		if !errors.Is(err, hackpadfs.ErrNotExist) {
			return "", "", fmt.Errorf("read %s: %w", name+ext, err)
		}
	}
	return "", "", fmt.Errorf("%s: %w", name, hackpadfs.ErrNotExist)
}

// MapImporter serves imports from memory, keyed by the path as written.
type MapImporter map[string]string

func (m MapImporter) Import(_, target string) (string, string, error) {
	src, ok := m[target]
	if !ok {
		return "", "", fmt.Errorf("%s: %w", target, fs.ErrNotExist)
	}
	return target, src, nil
}
