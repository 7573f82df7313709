package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dop251/goja"
	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/js/modules"
	"github.com/shiroyk/jsrt/lib"
	"github.com/shiroyk/jsrt/lib/config"
	"github.com/spf13/cobra"
)

var (
	accentColor    = lipgloss.Color("#F7DF1E")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#3B82F6")

	promptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(highlightColor)
	helpDescStyle = lipgloss.NewStyle().Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "start an interactive session",
	RunE: func(*cobra.Command, []string) error {
		m, err := newREPLModel(appConfig())
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	config     *config.Config
	textInput  textinput.Model
	vm         *js.Context
	require    *modules.Require
	console    *strings.Builder
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	width      int
	height     int
	showHelp   bool
	quitting   bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
	Clear key.Binding
	Help  key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous command")),
	Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next command")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
	Quit:  key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	Clear: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Help:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "toggle help")),
}

func newREPLModel(cfg *config.Config) (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "type an expression..."
	ti.Focus()
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "jsrt> "

	m := replModel{
		config:     cfg,
		textInput:  ti,
		historyIdx: -1,
	}
	err := m.reset()
	return m, err
}

// reset replaces the context, dropping globals and loaded modules.
func (m *replModel) reset() (err error) {
	m.console = new(strings.Builder)
	m.vm, m.require, err = newContext(m.config, baseArg, js.WithOutput(m.console, m.console))
	return
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Clear):
			m.history = nil
			return m, nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			m.historyIdx = -1

			if strings.HasPrefix(input, ":") {
				return m.handleCommand(input)
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
			m.cmdHistory = append(m.cmdHistory, input)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":modules", ":m":
		m.history = append(m.history, historyEntry{input: input, output: m.modules()})
	case ":reset", ":r":
		entry := historyEntry{input: input, output: "Context reset"}
		if err := m.reset(); err != nil {
			entry = historyEntry{input: input, output: err.Error(), isErr: true}
		}
		m.history = append(m.history, entry)
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// modules the loaded module paths relative to the base directory.
func (m replModel) modules() string {
	paths := m.require.Modules()
	if len(paths) == 0 {
		return "No modules loaded"
	}
	for i, path := range paths {
		if rel, err := filepath.Rel(m.require.Base(), path); err == nil {
			paths[i] = rel
		}
	}
	return strings.Join(paths, "\n")
}

// evaluate runs the input within the configured timeout, the console
// output is written before the result. The last result is kept in the global "_".
func (m replModel) evaluate(input string) (string, bool) {
	defer m.console.Reset()

	ctx, cancel := runContext(context.Background(), m.config)
	defer cancel()

	var result any
	err := m.vm.DoContext(ctx, func(rt *goja.Runtime) error {
		value, err := rt.RunScript("<repl>", input)
		if err != nil {
			return err
		}
		if err = rt.Set("_", value); err != nil {
			return err
		}
		result, err = js.Unwrap(value)
		return err
	})

	output := m.console.String()
	if err != nil {
		return output + err.Error(), true
	}
	return output + formatValue(result), false
}

func (m replModel) View() string {
	if m.quitting {
		return mutedStyle.Render("Bye!\n")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("jsrt REPL") + " " + mutedStyle.Render(lib.Version) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	reserved := 8
	if m.showHelp {
		reserved += 10
	}
	start := 0
	if available := max(m.height-reserved, 1); m.height > 0 && len(m.history) > available {
		start = len(m.history) - available
	}

	for _, entry := range m.history[start:] {
		b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n\n")
		}
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel() + "\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")
	b.WriteString(helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit"))

	return b.String()
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Enter", "Evaluate expression"},
		{":help", "Toggle this help"},
		{":modules", "List loaded modules"},
		{":clear", "Clear history"},
		{":reset", "Reset context"},
		{":quit", "Exit REPL"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-9s", h.key)),
			helpDescStyle.Render(h.desc)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}
