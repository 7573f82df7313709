package modules

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shiroyk/jsrt/js"
)

// DefaultProbes the file name suffixes tried in order: the exact path,
// path + ".js", path + "/index.js".
var DefaultProbes = []string{"", ".js", "/index.js"}

// Resolver maps the module identifier to an absolute file path.
type Resolver struct {
	base   string
	probes []string
}

// NewResolver returns a Resolver of the base directory.
// The base is made absolute, nil probes uses DefaultProbes.
func NewResolver(base string, probes []string) (*Resolver, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	if probes == nil {
		probes = DefaultProbes
	}
	return &Resolver{base: abs, probes: probes}, nil
}

// Base the absolute base directory.
func (r *Resolver) Base() string { return r.base }

// Resolve the identifier requested from the dir.
// Relative identifiers ("./", "../") join dir, absolute identifiers are
// used as is, anything else joins the base directory. Identifiers naming
// a directory (".", "..", trailing "/") only try the directory probes.
func (r *Resolver) Resolve(id, dir string) (string, error) {
	if id == "" {
		return "", &js.Error{Kind: js.InvalidModule, Message: "illegal module name"}
	}

	var candidate string
	switch {
	case isRelative(id):
		if dir == "" {
			dir = r.base
		}
		candidate = filepath.Join(dir, filepath.FromSlash(id))
	case filepath.IsAbs(id):
		candidate = filepath.Clean(id)
	default:
		candidate = filepath.Join(r.base, filepath.FromSlash(id))
	}

	dirOnly := isDirectory(id)
	for _, probe := range r.probes {
		if dirOnly && !strings.HasPrefix(probe, "/") {
			continue
		}
		p := candidate + filepath.FromSlash(probe)
		if isFile(p) {
			return p, nil
		}
	}
	return "", js.NotFoundError(id)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isRelative(id string) bool {
	result := id == "." || id == ".." ||
		strings.HasPrefix(id, "./") ||
		strings.HasPrefix(id, "../")

	if runtime.GOOS == "windows" {
		result = result ||
			strings.HasPrefix(id, `.\`) ||
			strings.HasPrefix(id, `..\`)
	}

	return result
}

func isDirectory(id string) bool {
	return id == "." || id == ".." || strings.HasSuffix(id, "/") ||
		(runtime.GOOS == "windows" && strings.HasSuffix(id, `\`))
}
