package modules

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/ohler55/ojg/oj"
	"github.com/shiroyk/jsrt/js"
)

// load returns the exports of the resolved module, evaluating it once.
// A module still loading (circular require) returns its current,
// possibly incomplete exports.
func (r *Require) load(rt *goja.Runtime, m *Module) (goja.Value, error) {
	if cached, ok := r.cache.Get(m.Path); ok {
		switch cached.State() {
		case Loaded, Loading:
			return cached.Exports(), nil
		}
	}

	m.object = newModuleObject(rt, m)
	m.advance(Loading)
	r.cache.Insert(m.Path, m)

	start := time.Now()
	if err := r.evaluate(rt, m); err != nil {
		m.advance(Failed)
		r.cache.Remove(m.Path)
		r.logger.Debug("module failed", slog.String("id", m.ID), slog.String("path", m.Path),
			slog.String("error", err.Error()))
		return nil, err
	}

	m.advance(Loaded)
	_ = m.object.Set("loaded", true)
	r.logger.Debug("module loaded", slog.String("id", m.ID), slog.String("path", m.Path),
		slog.Duration("elapsed", time.Since(start)))
	return m.Exports(), nil
}

// evaluate reads the module source and runs it in the module scope.
func (r *Require) evaluate(rt *goja.Runtime, m *Module) error {
	source, err := js.ReadSource(m.Path)
	if err != nil {
		return &js.Error{Kind: js.IOError, ID: m.ID, Path: m.Path, Message: err.Error(), Err: err}
	}

	if strings.EqualFold(filepath.Ext(m.Path), ".json") {
		value, err := oj.ParseString(source)
		if err != nil {
			return syntaxError(m, err)
		}
		return m.object.Set("exports", rt.ToValue(value))
	}

	source = "(function(exports, require, module, __filename, __dirname) {" + source + "\n})"

	ast, err := goja.Parse(m.Path, source, parser.WithDisableSourceMaps)
	if err != nil {
		return syntaxError(m, err)
	}

	prg, err := goja.CompileAST(ast, false)
	if err != nil {
		return syntaxError(m, err)
	}

	f, err := rt.RunProgram(prg)
	if err != nil {
		return err
	}

	call, ok := goja.AssertFunction(f)
	if !ok {
		return &js.Error{Kind: js.InvalidModule, ID: m.ID, Path: m.Path, Message: "invalid module: " + m.ID}
	}

	dir := filepath.Dir(m.Path)
	exports := m.object.Get("exports")

	// Run the module source, with "exports" as "this",
	// "exports" as the "exports" variable, the require of
	// the module directory as the "require" variable and
	// the module object as the "module" variable.
	_, err = call(exports, exports, r.requireFunc(rt, dir), m.object, rt.ToValue(m.Path), rt.ToValue(dir))
	return err
}

func syntaxError(m *Module, err error) *js.Error {
	msg := err.Error()
	if !strings.HasPrefix(msg, "SyntaxError") {
		msg = "SyntaxError: " + msg
	}
	return &js.Error{Kind: js.ScriptError, ID: m.ID, Path: m.Path, Message: msg, Err: err}
}
