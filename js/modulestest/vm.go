// Package modulestest the module test context
package modulestest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dop251/goja"
	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/js/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// New returns a test context with require enabled at base
// and a global assert object.
func New(t *testing.T, base string, opts ...js.Option) (*js.Context, *modules.Require) {
	t.Helper()
	ctx := js.NewContext(opts...)
	req, err := modules.Enable(ctx, base)
	require.NoError(t, err)

	err = ctx.Do(func(rt *goja.Runtime) error {
		assertObject := rt.NewObject()
		_ = assertObject.Set("equal", func(call goja.FunctionCall) (ret goja.Value) {
			a, err := js.Unwrap(call.Argument(0))
			if err != nil {
				ctx.Throw(err)
			}
			b, err := js.Unwrap(call.Argument(1))
			if err != nil {
				ctx.Throw(err)
			}
			var msg string
			if !goja.IsUndefined(call.Argument(2)) {
				msg = call.Argument(2).String()
			}
			if !assert.Equal(t, b, a, msg) {
				ctx.Throw(errors.New("not equal"))
			}
			return
		})
		_ = assertObject.Set("true", func(call goja.FunctionCall) (ret goja.Value) {
			var msg string
			if !goja.IsUndefined(call.Argument(1)) {
				msg = call.Argument(1).String()
			}
			if !assert.True(t, call.Argument(0).ToBoolean(), msg) {
				ctx.Throw(errors.New("should be true"))
			}
			return
		})
		return rt.Set("assert", assertObject)
	})
	require.NoError(t, err)

	return ctx, req
}

// WriteFiles writes the files relative to dir, creating parent directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}
