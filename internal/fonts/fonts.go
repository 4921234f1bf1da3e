// Package fonts finds TrueType and OpenType files and loads them as faces for text
// measurement and drawing.
package fonts

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"style-engine/internal/layout"
)

// Exts are the extensions considered font files.
var Exts = []string{".ttf", ".otf"}

// ErrNotFound is returned by Find when no file matches.
var ErrNotFound = errors.New("font not found")

// ScanDir returns the slash-separated paths, relative to dir, of every font file under
// dir. A missing dir yields no paths.
func ScanDir(fsys hackpadfs.FS, dir string) ([]string, error) {
	var out []string
	var walk func(rel string) error
	walk = func(rel string) error {
		entries, err := hackpadfs.ReadDir(fsys, path.Join(dir, rel))
		if err != nil {
			return err
		}
		for _, e := range entries {
			p := path.Join(rel, e.Name())
			switch {
			case e.IsDir():
				if err := walk(p); err != nil {
					return err
				}
			case isFont(p):
				out = append(out, p)
			}
		}
		return nil
	}
	if err := walk(""); err != nil && !errors.Is(err, hackpadfs.ErrNotExist) {
		return nil, err
	}
	return out, nil
}

func isFont(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and removes spaces, dashes and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find searches dirs for a font whose path contains search, ignoring case, spaces,
// dashes and underscores: "Go Regular" finds "go/Go-Regular.ttf". When several files
// match, one with "regular" in its path is preferred. It returns the full path.
func Find(fsys hackpadfs.FS, dirs []string, search string) (string, error) {
	norm := normalize(strings.TrimSuffix(search, path.Ext(search)))
	if norm == "" {
		return "", ErrNotFound
	}
	var matches []string
	for _, dir := range dirs {
		list, err := ScanDir(fsys, dir)
		if err != nil {
			return "", err
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), norm) {
				matches = append(matches, path.Join(dir, rel))
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, search)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}

// Load parses the font file at name and returns a face rasterized at size pixels.
func Load(fsys hackpadfs.FS, name string, size float64) (font.Face, error) {
	data, err := hackpadfs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", name, err)
	}
	return face, nil
}

// Measurer measures text with a face loaded at size pixels.
func Measurer(face font.Face, size float64) layout.FaceMeasurer {
	return layout.FaceMeasurer{Face: face, Size: float32(size)}
}
