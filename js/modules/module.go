package modules

import (
	"github.com/dop251/goja"
)

// State the module loading state, it only advances.
type State uint8

const (
	// Resolving the identifier is being resolved.
	Resolving State = iota
	// Loading the module body is being evaluated.
	Loading
	// Loaded the module body completed.
	Loaded
	// Failed the module body or its source failed.
	Failed
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Module the module record.
type Module struct {
	// ID the identifier as requested.
	ID string
	// Path the resolved absolute path, the cache key.
	Path string

	state  State
	object *goja.Object // the js "module" object
}

// State the current loading state.
func (m *Module) State() State { return m.state }

// advance moves the state forward, regressions are ignored.
func (m *Module) advance(s State) {
	if s > m.state {
		m.state = s
	}
}

// Exports the current value of module.exports.
func (m *Module) Exports() goja.Value {
	if m.object == nil {
		return goja.Undefined()
	}
	return m.object.Get("exports")
}

// newModuleObject creates the js "module" object with an empty exports.
func newModuleObject(rt *goja.Runtime, m *Module) *goja.Object {
	obj := rt.NewObject()
	_ = obj.Set("id", m.ID)
	_ = obj.Set("filename", m.Path)
	_ = obj.Set("loaded", false)
	_ = obj.Set("exports", rt.NewObject())
	return obj
}
