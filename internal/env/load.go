// Package env reads KEY=VALUE files into the process environment.
package env

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
)

// Parse reads lines of the form KEY=VALUE. Empty lines and lines starting with # are
// skipped, an "export " prefix is allowed, and matching quotes around the value are
// removed.
func Parse(data []byte) (map[string]string, error) {
	vars := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", n)
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		vars[key] = value
	}
	return vars, scanner.Err()
}

// Read parses the file name in fsys. A missing file yields no variables.
func Read(fsys hackpadfs.FS, name string) (map[string]string, error) {
	data, err := hackpadfs.ReadFile(fsys, name)
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	vars, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("env %s: %w", name, err)
	}
	return vars, nil
}

// Load reads the file at path (e.g. ".env") and sets every variable that is not
// already set. The file may be missing; that is not an error.
func Load(path string) error {
	fsys := osfs.NewFS()
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("env: %w", err)
	}
	name, err := fsys.FromOSPath(abs)
	if err != nil {
		return fmt.Errorf("env: %w", err)
	}
	vars, err := Read(fsys, name)
	if err != nil {
		return err
	}
	Apply(vars)
	return nil
}

// Apply sets every variable of vars that is not already set.
func Apply(vars map[string]string) {
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); !ok {
			_ = os.Setenv(k, v)
		}
	}
}
