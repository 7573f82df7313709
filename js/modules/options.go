package modules

import (
	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/lib/utils"
)

// Options the module system configuration
type Options struct {
	// Base the directory of non-relative and top-level identifiers
	Base string `yaml:"base"`
	// Probes the file name suffixes tried in order when resolving
	Probes []string `yaml:"probes"`
}

// New creates a js.Context with require enabled by the options.
// An empty base uses the working directory.
func New(opt Options, opts ...js.Option) (*js.Context, *Require, error) {
	base, err := utils.ExpandPath(utils.ZeroOr(opt.Base, "."))
	if err != nil {
		return nil, nil, err
	}
	ctx := js.NewContext(opts...)
	r, err := Enable(ctx, base, WithProbes(utils.EmptyOr(opt.Probes, DefaultProbes)...))
	if err != nil {
		return nil, nil, err
	}
	return ctx, r, nil
}
