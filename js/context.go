package js

import (
	"context"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sync"

	"github.com/dop251/goja"
)

// DefaultFilename the file name used by Eval when none is given.
const DefaultFilename = "<input>"

type (
	// Context the JavaScript engine context.
	// All host entry points are serialized by a single mutex, a Context
	// may be shared between goroutines but evaluates one script at a time.
	// Host callbacks must not call back into the Context entry points.
	Context struct {
		mu      sync.Mutex
		runtime *goja.Runtime
		logger  *slog.Logger
		stdout  io.Writer
		stderr  io.Writer
		console bool

		// thrown keeps the host errors thrown into the runtime during
		// the current evaluation, keyed by the thrown js object.
		thrown map[*goja.Object]*Error
	}

	// Option the NewContext options.
	Option func(*Context)
)

// WithoutConsole disable the global console object.
func WithoutConsole() Option {
	return func(c *Context) { c.console = false }
}

// WithLogger the slog.Logger of context, used by console.debug and the module loader.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithOutput the writers of console, log and info write to stdout, warn and error write to stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Context) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// NewContext creates a new JavaScript engine context.
func NewContext(opts ...Option) *Context {
	c := &Context{
		runtime: goja.New(),
		logger:  slog.Default(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		console: true,
		thrown:  make(map[*goja.Object]*Error),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.console {
		enableConsole(c)
	}
	return c
}

// Runtime the goja runtime.
// The runtime must only be used inside Do or from script callbacks.
func (c *Context) Runtime() *goja.Runtime { return c.runtime }

// Logger the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Do runs fn against the runtime while holding the context lock,
// errors escaping fn are translated to *Error.
func (c *Context) Do(fn func(*goja.Runtime) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer clear(c.thrown)
	return c.translate(fn(c.runtime))
}

// Eval evaluates the code and returns the exported result.
// An empty filename uses DefaultFilename.
func (c *Context) Eval(code string, filename ...string) (ret any, err error) {
	err = c.Do(func(rt *goja.Runtime) error {
		value, err := rt.RunScript(scriptName(filename), code)
		if err != nil {
			return err
		}
		ret, err = Unwrap(value)
		return err
	})
	return
}

// EvalValue evaluates the code and returns the goja.Value result.
func (c *Context) EvalValue(code string, filename ...string) (ret goja.Value, err error) {
	err = c.Do(func(rt *goja.Runtime) (err error) {
		ret, err = rt.RunScript(scriptName(filename), code)
		return
	})
	return
}

func scriptName(filename []string) string {
	if len(filename) > 0 && filename[0] != "" {
		return filename[0]
	}
	return DefaultFilename
}

// EvalFile reads the file as UTF-8 and evaluates it with the path as file name.
func (c *Context) EvalFile(path string) (any, error) {
	source, err := ReadSource(path)
	if err != nil {
		return nil, &Error{Kind: IOError, Path: path, Message: err.Error(), Err: err}
	}
	return c.Eval(source, path)
}

// RunContext evaluates the code, interrupting the runtime when ctx is done.
func (c *Context) RunContext(ctx context.Context, code string, filename ...string) (ret any, err error) {
	err = c.DoContext(ctx, func(rt *goja.Runtime) error {
		value, err := rt.RunScript(scriptName(filename), code)
		if err != nil {
			return err
		}
		ret, err = Unwrap(value)
		return err
	})
	return
}

// DoContext runs fn like Do, interrupting the runtime when ctx is done.
// A pending interrupt is cleared before returning, the context stays usable.
func (c *Context) DoContext(ctx context.Context, fn func(*goja.Runtime) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer clear(c.thrown)

	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		c.runtime.Interrupt(ctx.Err())
		close(interrupted)
	})
	defer func() {
		if !stop() {
			<-interrupted
			c.runtime.ClearInterrupt()
		}
	}()
	return c.translate(fn(c.runtime))
}

// Set the global variable.
// Go functions are wrapped, a returned error or panic is thrown into
// the script as a host callback error.
func (c *Context) Set(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn := reflect.ValueOf(value); fn.Kind() == reflect.Func && !isNativeFunc(value) {
		return c.runtime.Set(name, c.wrapFunc(fn))
	}
	return c.runtime.Set(name, value)
}
