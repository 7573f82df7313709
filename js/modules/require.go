// Package modules the CommonJS module system of js.Context.
//
// Identifiers starting with "./" or "../" resolve relative to the
// requiring module directory, other identifiers resolve relative to the
// base directory. Each file is tried as is, with ".js" and as "/index.js".
//
//	ctx := js.NewContext()
//	if _, err := modules.Enable(ctx, "./scripts"); err != nil {
//		panic(err)
//	}
//	value, err := ctx.Eval(`require('./main').calc(5)`)
package modules

import (
	"log/slog"

	"github.com/dop251/goja"
	"github.com/shiroyk/jsrt/js"
)

type (
	// Require the module system bound to one js.Context.
	// The resolver, cache and loader are guarded by the context lock.
	Require struct {
		ctx      *js.Context
		resolver *Resolver
		cache    *Cache
		logger   *slog.Logger
	}

	// Option the Enable options.
	Option func(*options)

	options struct {
		probes []string
		logger *slog.Logger
	}
)

// WithProbes the file name suffixes tried in order when resolving.
func WithProbes(probes ...string) Option {
	return func(o *options) { o.probes = probes }
}

// WithLogger the logger of module loading, defaults to the context logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Enable installs the global require function into the context,
// base is the directory of non-relative and top-level identifiers.
func Enable(ctx *js.Context, base string, opts ...Option) (*Require, error) {
	o := new(options)
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = ctx.Logger()
	}

	resolver, err := NewResolver(base, o.probes)
	if err != nil {
		return nil, err
	}

	r := &Require{
		ctx:      ctx,
		resolver: resolver,
		cache:    NewCache(),
		logger:   o.logger,
	}

	err = ctx.Do(func(rt *goja.Runtime) error {
		return rt.Set("require", r.requireFunc(rt, resolver.Base()))
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Base the absolute base directory.
func (r *Require) Base() string { return r.resolver.Base() }

// Require the module from the host, relative to the base directory.
func (r *Require) Require(id string) (ret goja.Value, err error) {
	err = r.ctx.Do(func(rt *goja.Runtime) (err error) {
		ret, err = r.require(rt, id, r.resolver.Base())
		return
	})
	return
}

// Resolve the identifier relative to the base directory.
func (r *Require) Resolve(id string) (path string, err error) {
	err = r.ctx.Do(func(*goja.Runtime) (err error) {
		path, err = r.resolver.Resolve(id, r.resolver.Base())
		return
	})
	return
}

// Modules the sorted paths of loaded modules.
func (r *Require) Modules() (paths []string) {
	_ = r.ctx.Do(func(*goja.Runtime) error {
		paths = r.cache.Paths()
		return nil
	})
	return
}

// require resolves the identifier requested from dir and loads it.
func (r *Require) require(rt *goja.Runtime, id, dir string) (goja.Value, error) {
	m := &Module{ID: id}
	path, err := r.resolver.Resolve(id, dir)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return r.load(rt, m)
}

// requireFunc the js require function of the directory.
func (r *Require) requireFunc(rt *goja.Runtime, dir string) *goja.Object {
	fn := rt.ToValue(func(call goja.FunctionCall) goja.Value {
		id, err := identifier(call)
		if err != nil {
			r.ctx.Throw(err)
		}
		exports, err := r.require(rt, id, dir)
		if err != nil {
			r.ctx.Throw(err)
		}
		return exports
	}).(*goja.Object)

	_ = fn.Set("resolve", func(call goja.FunctionCall) goja.Value {
		id, err := identifier(call)
		if err != nil {
			r.ctx.Throw(err)
		}
		path, err := r.resolver.Resolve(id, dir)
		if err != nil {
			r.ctx.Throw(err)
		}
		return rt.ToValue(path)
	})
	return fn
}

func identifier(call goja.FunctionCall) (string, error) {
	if _, ok := call.Argument(0).Export().(string); !ok {
		return "", &js.Error{Kind: js.InvalidModule, Message: "the module identifier must be a string"}
	}
	return call.Argument(0).String(), nil
}
