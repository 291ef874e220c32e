package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the override file that sits next to `name`,
// config.json5 -> config.local.json5
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s.local%s", strings.TrimSuffix(name, ext), ext)
}

func readLayer[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}

	var layer T
	err = json5.Unmarshal(contents, &layer)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	err = mergo.Merge(out, layer, mergo.WithOverride, mergo.WithoutDereference)
	if err != nil {
		return false, fmt.Errorf("merge %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig layers the following, where a higher number wins:
// 1. `defaults`
// 2. <name>.<ext>
// 3. <name>.local.<ext>
//
// files that don't exist are skipped. zero values in a file never
// override a lower layer, use a pointer field for values that must be
// resettable: a non-nil pointer always wins, even to 0 or false.
func ReadConfig[T any](name string, defaults T) (T, error) {
	out := defaults
	for _, path := range []string{name, LocalPath(name)} {
		found, err := readLayer(path, &out)
		if err != nil {
			return defaults, err
		}
		if found {
			slog.Debug("merged config layer", "path", path)
		}
	}
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadRecursively walks up from the cwd until it finds a directory
// containing <name> (or its local override) and reads it with ReadConfig.
// when nothing is found `defaults` is returned as is.
func ReadRecursively[T any](name string, defaults T) (T, error) {
	current, err := os.Getwd()
	if err != nil {
		return defaults, err
	}

	for {
		candidate := filepath.Join(current, name)
		if exists(candidate) || exists(LocalPath(candidate)) {
			return ReadConfig(candidate, defaults)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return defaults, nil
		}
		current = parent
	}
}
