// Package utils the common helpers
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ZeroOr if value is zero value returns the defaultValue
func ZeroOr[T comparable](value, defaultValue T) T {
	var zero T
	if zero == value {
		return defaultValue
	}
	return value
}

// EmptyOr if slice is empty returns the defaultValue
func EmptyOr[T any](value, defaultValue []T) []T {
	if len(value) == 0 {
		return defaultValue
	}
	return value
}

// ExpandPath expands a leading "~" to the home directory
// and makes relative paths absolute to the working directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}

// ReadYaml read the YAML file and convert it to T
func ReadYaml[T any](path string) (*T, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t := new(T)
	if err = yaml.Unmarshal(bytes, t); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteYaml writes the value as YAML, creating the parent directories.
func WriteYaml(path string, value any) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	bytes, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o600)
}
