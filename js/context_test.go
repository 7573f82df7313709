package js

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	testCases := []struct {
		script string
		want   any
	}{
		{"1 + 1", int64(2)},
		{"'hello' + ' ' + 'world'", "hello world"},
		{"1.5 * 2.5", 3.75},
		{"true && !false", true},
		{"null", nil},
		{"undefined", nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.script, func(t *testing.T) {
			v, err := ctx.Eval(testCase.script)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, v)
		})
	}
}

func TestEvalError(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	_, err := ctx.Eval("throw new Error('oops')")
	require.Error(t, err)
	assert.Equal(t, "Error: oops", err.Error())
	assert.ErrorIs(t, err, ErrScript)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ScriptError, e.Kind)

	_, err = ctx.Eval("__console_out")
	assert.ErrorContains(t, err, "ReferenceError")

	_, err = ctx.Eval("var = ;")
	assert.ErrorContains(t, err, "SyntaxError")
}

func TestContextPersistence(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	_, err := ctx.Eval("var x = 10;")
	require.NoError(t, err)
	v, err := ctx.Eval("x")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}

func TestSet(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	require.NoError(t, ctx.Set("myVar", 42))
	v, err := ctx.Eval("myVar")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	require.NoError(t, ctx.Set("myStr", "hello"))
	v, err = ctx.Eval("myStr")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestHostCallback(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	require.NoError(t, ctx.Set("add", func(a, b int) int { return a + b }))
	require.NoError(t, ctx.Set("join", func(sep string, s ...string) string {
		out := ""
		for i, v := range s {
			if i > 0 {
				out += sep
			}
			out += v
		}
		return out
	}))
	require.NoError(t, ctx.Set("noop", func() {}))

	v, err := ctx.Eval("add(10, 20)")
	require.NoError(t, err)
	assert.Equal(t, int64(30), v)

	v, err = ctx.Eval("join('-', 'a', 'b', 'c')")
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", v)

	v, err = ctx.Eval("noop()")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestHostCallbackError(t *testing.T) {
	t.Parallel()
	ctx := NewContext()
	errWrong := errors.New("Something went wrong")

	require.NoError(t, ctx.Set("fail", func() error { return errWrong }))
	require.NoError(t, ctx.Set("boom", func() { panic("boom") }))

	_, err := ctx.Eval("fail()")
	assert.EqualError(t, err, "Go Exception: Something went wrong")
	assert.ErrorIs(t, err, ErrHostCallback)
	assert.ErrorIs(t, err, errWrong)

	_, err = ctx.Eval("boom()")
	assert.EqualError(t, err, "Go Exception: boom")

	v, err := ctx.Eval("try { fail() } catch (e) { e.message + '|' + e.code }")
	require.NoError(t, err)
	assert.Equal(t, "Go Exception: Something went wrong|ERR_HOST_CALLBACK", v)
}

func TestNestedHostCallbackError(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	require.NoError(t, ctx.Set("api", map[string]any{
		"fail": func() error { return os.ErrPermission },
		"make": func() func() error {
			return func() error { return os.ErrClosed }
		},
	}))

	_, err := ctx.Eval("api.fail()")
	assert.EqualError(t, err, "Go Exception: permission denied")
	assert.ErrorIs(t, err, ErrHostCallback)
	assert.ErrorIs(t, err, os.ErrPermission)

	_, err = ctx.Eval("api.make()()")
	assert.EqualError(t, err, "Go Exception: "+os.ErrClosed.Error())
	assert.ErrorIs(t, err, ErrHostCallback)

	_, err = ctx.Eval("throw new Error('script')")
	assert.ErrorIs(t, err, ErrScript)
}

func TestEvalFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := NewContext()

	file := filepath.Join(dir, "test.js")
	require.NoError(t, os.WriteFile(file, []byte("var x = 100; x * 2;"), 0o644))
	v, err := ctx.EvalFile(file)
	require.NoError(t, err)
	assert.Equal(t, int64(200), v)

	file = filepath.Join(dir, "error.js")
	require.NoError(t, os.WriteFile(file, []byte("throw new Error('file error');"), 0o644))
	_, err = ctx.EvalFile(file)
	assert.ErrorContains(t, err, "file error")

	_, err = ctx.EvalFile(filepath.Join(dir, "missing.js"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestRunContext(t *testing.T) {
	t.Parallel()
	vm := NewContext()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := vm.RunContext(ctx, "for(;;){}")
	assert.ErrorIs(t, err, ErrInterrupted)

	v, err := vm.RunContext(context.Background(), "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestRunContextCanceled(t *testing.T) {
	t.Parallel()
	vm := NewContext()

	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _ = vm.RunContext(ctx, "1")

		v, err := vm.Eval("2")
		require.NoError(t, err, "stale interrupt after run %d", i)
		assert.Equal(t, int64(2), v)
	}
}

func TestDecodeSource(t *testing.T) {
	t.Parallel()
	s, err := DecodeSource([]byte("\xEF\xBB\xBF#!/usr/bin/env jsrt\n1 + 1"))
	require.NoError(t, err)
	assert.Equal(t, "//#!/usr/bin/env jsrt\n1 + 1", s)

	ctx := NewContext()
	v, err := ctx.Eval(s)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = DecodeSource([]byte("var s = '\xff\xfe';"))
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	file := filepath.Join(t.TempDir(), "latin1.js")
	require.NoError(t, os.WriteFile(file, []byte("'caf\xe9'"), 0o644))
	_, err = ctx.EvalFile(file)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
