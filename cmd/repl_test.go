package cmd

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shiroyk/jsrt/js/modulestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T) replModel {
	m, err := newREPLModel(testConfig(t))
	require.NoError(t, err)
	return m
}

func enter(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	require.True(t, ok, "unexpected model type %T", model)
	return rm, cmd
}

func TestREPLQuit(t *testing.T) {
	t.Parallel()
	m, cmd := enter(t, newTestREPL(t), ":quit")

	assert.True(t, m.quitting)
	assert.Empty(t, m.textInput.Value())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestREPLHelp(t *testing.T) {
	t.Parallel()
	m, cmd := enter(t, newTestREPL(t), ":help")

	assert.Nil(t, cmd)
	assert.False(t, m.quitting)
	assert.True(t, m.showHelp)
	assert.Empty(t, m.textInput.Value())
	assert.Contains(t, m.View(), ":modules")
}

func TestREPLEvaluate(t *testing.T) {
	t.Parallel()
	m := newTestREPL(t)

	m, _ = enter(t, m, "var score = 40")
	m, _ = enter(t, m, "score + 2")
	m, _ = enter(t, m, "_ * 2")
	m, _ = enter(t, m, "console.log('hi'); 'ok'")
	m, _ = enter(t, m, "nope()")

	require.Len(t, m.history, 5)
	assert.Equal(t, historyEntry{input: "score + 2", output: "42"}, m.history[1])
	assert.Equal(t, historyEntry{input: "_ * 2", output: "84"}, m.history[2])
	assert.Equal(t, "hi\nok", m.history[3].output)
	assert.True(t, m.history[4].isErr)
	assert.Contains(t, m.history[4].output, "ReferenceError")
	assert.Equal(t, []string{"var score = 40", "score + 2", "_ * 2", "console.log('hi'); 'ok'", "nope()"}, m.cmdHistory)
}

func TestREPLHistory(t *testing.T) {
	t.Parallel()
	m := newTestREPL(t)
	m, _ = enter(t, m, "1")
	m, _ = enter(t, m, "2")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	assert.Equal(t, "2", m.textInput.Value())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	assert.Equal(t, "1", m.textInput.Value())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	assert.Equal(t, "2", m.textInput.Value())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	assert.Empty(t, m.textInput.Value())
}

func TestREPLModulesAndReset(t *testing.T) {
	t.Parallel()
	m := newTestREPL(t)
	modulestest.WriteFiles(t, m.require.Base(), map[string]string{
		"lib/util.js": `exports.x = 1;`,
	})

	m, _ = enter(t, m, ":modules")
	assert.Equal(t, "No modules loaded", m.history[0].output)

	m, _ = enter(t, m, "require('./lib/util').x")
	assert.Equal(t, "1", m.history[1].output)

	m, _ = enter(t, m, ":m")
	assert.Equal(t, filepath.Join("lib", "util.js"), m.history[2].output)

	m, _ = enter(t, m, "var kept = 1")
	m, _ = enter(t, m, ":reset")
	assert.Equal(t, "Context reset", m.history[4].output)

	m, _ = enter(t, m, "typeof kept")
	assert.Equal(t, "undefined", m.history[5].output)

	m, _ = enter(t, m, ":bogus")
	assert.True(t, m.history[6].isErr)
	assert.Equal(t, "Unknown command: :bogus", m.history[6].output)

	m, _ = enter(t, m, ":clear")
	assert.Empty(t, m.history)
}

func TestREPLTimeout(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Timeout = 50 * time.Millisecond
	m, err := newREPLModel(cfg)
	require.NoError(t, err)

	m, _ = enter(t, m, "for (;;) {}")
	require.Len(t, m.history, 1)
	assert.True(t, m.history[0].isErr)

	m, _ = enter(t, m, "1 + 1")
	assert.Equal(t, historyEntry{input: "1 + 1", output: "2"}, m.history[1])
}
