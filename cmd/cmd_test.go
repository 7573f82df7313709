package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/js/modulestest"
	"github.com/shiroyk/jsrt/lib/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Module.Base = t.TempDir()
	cfg.Timeout = time.Second
	return cfg
}

func TestRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	modulestest.WriteFiles(t, dir, map[string]string{
		"lib/greet.js": `module.exports = (name) => ({ greeting: 'hello ' + name, n: 1 });`,
		"main.js":      "#!/usr/bin/env jsrt\nrequire('./lib/greet')('jsrt')",
	})

	out := new(bytes.Buffer)
	require.NoError(t, run(context.Background(), testConfig(t), filepath.Join(dir, "main.js"), "", out))
	assert.JSONEq(t, `{"greeting": "hello jsrt", "n": 1}`, out.String())

	output := filepath.Join(t.TempDir(), "result")
	require.NoError(t, run(context.Background(), testConfig(t), filepath.Join(dir, "main.js"), output, out))
	data, err := os.ReadFile(output + ".json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting": "hello jsrt", "n": 1}`, string(data))
}

func TestRunError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	modulestest.WriteFiles(t, dir, map[string]string{
		"main.js": `require('./missing')`,
		"loop.js": `for (;;) {}`,
	})
	cfg := testConfig(t)
	cfg.Timeout = 50 * time.Millisecond

	err := run(context.Background(), cfg, filepath.Join(dir, "main.js"), "", new(bytes.Buffer))
	assert.ErrorIs(t, err, js.ErrModuleNotFound)

	err = run(context.Background(), cfg, filepath.Join(dir, "loop.js"), "", new(bytes.Buffer))
	assert.ErrorIs(t, err, js.ErrInterrupted)

	err = run(context.Background(), cfg, filepath.Join(dir, "none.js"), "", new(bytes.Buffer))
	assert.ErrorIs(t, err, js.ErrIO)
}

func TestEval(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		code, want string
	}{
		{"1 + 2", "3"},
		{"'jsrt'", "jsrt"},
		{"0.5", "0.5"},
		{"true", "true"},
		{"undefined", "undefined"},
		{"({b: 2, a: [1]})", `{"a":[1],"b":2}`},
	}
	for _, c := range testCases {
		t.Run(c.code, func(t *testing.T) {
			out := new(bytes.Buffer)
			require.NoError(t, eval(context.Background(), testConfig(t), c.code, out))
			assert.Equal(t, c.want+"\n", out.String())
		})
	}
}

func TestWriteDiskConfig(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "jsrt", "config.yml")
	require.NoError(t, writeDiskConfig(file))

	cfg, err := config.ReadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	assert.ErrorIs(t, writeDiskConfig(file), ErrConfigExists)
}
