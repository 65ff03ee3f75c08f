package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/value"
	"github.com/ardnew/boba/log"
)

// editDoneMsg is sent when an edit produced a program to run.
type editDoneMsg struct{ text string }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit after a parse error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

// indentUnit is added to the continuation line after a line opening a block.
const indentUnit = "    "

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode, or prefix with ':'):

  help     Print this cruft
  vars     List variables and functions
  edit     Write a program in external $EDITOR and run it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to run it; expression values are printed
  A line ending in ':' opens a block; an empty line runs it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		prompt := evalPrompt
		if i > 0 {
			prompt = contPrompt
		}

		lines[i] = promptStyle.Render(prompt) + inputStyle.Render(line)
	}

	return strings.Join(lines, "\n")
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Options configures [Run].
type Options struct {
	// HistoryPath is the file history persists to. Empty keeps history in
	// memory.
	HistoryPath string
	// Color enables styled diagnostics.
	Color bool
	// Logger receives trace events.
	Logger log.Logger
}

// HistoryPath returns the history file inside cacheDir.
func HistoryPath(cacheDir string) string {
	if cacheDir == "" {
		return ""
	}

	return filepath.Join(cacheDir, baseHistory)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	session          *lang.Session
	out              *bytes.Buffer // print output of the running program
	color            bool
	logger           log.Logger
	history          *History
	historyIdx       int
	entries          int           // programs run so far, for source labels
	pending          []string      // lines of an unfinished block
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL on session s. Programs typed at the prompt share the
// session's global frame, so definitions from earlier source files are
// visible.
func Run(ctx context.Context, s *lang.Session, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", opts.HistoryPath),
	)

	history := NewHistory(opts.HistoryPath)
	if err := history.Load(); err != nil {
		opts.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", opts.HistoryPath),
			slog.Any("error", err))
	}

	opts.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, s, history, opts)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *lang.Session,
	history *History,
	opts Options,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	// Print output is collected per program and flushed above the prompt.
	out := new(bytes.Buffer)
	s.Engine().SetOutput(out)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		out:        out,
		color:      opts.Color,
		logger:     opts.Logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("content_length", len(msg.text)),
		)

		return m.evaluate(strings.TrimRight(msg.text, "\n"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Lines of an unfinished block.
	for i, line := range m.pending {
		prompt := evalPrompt
		if i > 0 {
			prompt = contPrompt
		}

		b.WriteString(promptStyle.Render(prompt) + inputStyle.Render(line))
		b.WriteString("\n")
	}

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()

	// Check if we're viewing history
	viewingHistory := m.historyIdx < m.history.Len()

	// Check if cursor is inside a function call
	funcCall := detectFunctionCall(input, m.input.Position())

	switch {
	case viewingHistory:
		// Show history position indicator
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.pending) > 0 && strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Press Enter on an empty line to run the block"))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		var hint string
		if m.mode == modeEval {
			hint = "Type a statement or press Esc for commands"
		} else {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case funcCall.inCall && m.mode == modeEval:
		// Show function signature hint with current parameter highlighted
		signature, params := getSignature(m.session.Engine(), funcCall.name)
		if signature != "" {
			b.WriteString(renderSignatureHint(signature, params, funcCall.argIndex))
		} else {
			b.WriteString(m.renderCandidateBar())
		}

		b.WriteString("\n")

	default:
		b.WriteString(m.renderCandidateBar())
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		m.setPrompt()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			m.altNavActive = false

			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.altNavActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		if len(m.matches) == 0 && m.mode == modeEval && len(m.pending) > 0 {
			// Tab indents continuation lines when there is nothing to complete.
			input, pos := m.input.Value(), m.input.Position()
			m.input.SetValue(input[:pos] + indentUnit + input[pos:])
			m.input.SetCursor(pos + len(indentUnit))

			return m, nil
		}

		return m.handleTab()

	case tea.KeyShiftTab:
		return m.handleShiftTab()

	case tea.KeyUp:
		if msg.Alt {
			return m.historyPrevCtrl()
		}

		return m.historyPrev()

	case tea.KeyDown:
		if msg.Alt {
			return m.historyNextCtrl()
		}

		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space is the "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

func (m model) handleTab() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		// Cycle forward through candidates.
		m.suggIdx = (m.suggIdx + 1) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

func (m model) handleShiftTab() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		return m.handleTab()
	}

	if m.tabActive {
		// Cycle backward through candidates.
		m.suggIdx--
		if m.suggIdx < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = len(m.matches) - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// opensBlock reports whether line ends with the ':' that starts an indented
// block.
func opensBlock(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t"), ":")
}

// continuation returns the indentation to prefill after line.
func continuation(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	if opensBlock(line) {
		indent += indentUnit
	}

	return indent
}

// setPrompt selects the prompt for the current mode and block state.
func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case len(m.pending) > 0:
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	input := strings.TrimSpace(raw)

	// Blocks collect lines until an empty one.
	if m.mode == modeEval && (len(m.pending) > 0 || opensBlock(raw)) {
		if input != "" {
			m.pending = append(m.pending, strings.TrimRight(raw, " \t"))
			indent := continuation(raw)
			m.input.SetValue(indent)
			m.input.SetCursor(len(indent))
			m.setPrompt()
			refreshMatches(&m, false)

			return m, nil
		}

		input = strings.Join(m.pending, "\n")
		m.pending = nil
	}

	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.setPrompt()
	refreshMatches(&m, false)

	if cmd, ok := strings.CutPrefix(input, ":"); ok && m.mode == modeEval {
		var teaCmd tea.Cmd

		m.mode = modeCtrl
		m, teaCmd = m.runCommand(strings.TrimSpace(cmd))
		if m.mode == modeCtrl {
			m.mode = modeEval
			m.setPrompt()
		}

		return m, teaCmd
	}

	if m.mode == modeCtrl {
		return m.runCommand(input)
	}

	_, _ = m.history.WriteWithMode(input, modeEval)
	m.historyIdx = m.history.Len()

	return m.evaluate(input)
}

// runCommand records input in the command history and executes it.
func (m model) runCommand(input string) (model, tea.Cmd) {
	_, _ = m.history.WriteWithMode(input, modeCtrl)
	m.historyIdx = m.history.Len()
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("input", input),
	)

	return m.executeCommand(input)
}

// evaluate runs input as a program and prints its print output followed by
// its value or diagnostic.
func (m model) evaluate(input string) (model, tea.Cmd) {
	m.entries++
	label := fmt.Sprintf("<repl %d>", m.entries)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("source", label),
		slog.String("input", input),
	)

	cmds := []tea.Cmd{tea.Println(formatCommand(input))}

	m.out.Reset()
	result, err := m.session.Exec(m.ctxFunc(), label, input)

	if printed := strings.TrimSuffix(m.out.String(), "\n"); m.out.Len() > 0 {
		cmds = append(cmds, tea.Println(printed))
	}

	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.Any("error", err),
		)

		return m, tea.Sequence(append(cmds, tea.Println(m.diagnostic(err)))...)
	}

	if result == nil {
		result = value.None{}
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("result_type", result.TypeName()),
	)

	if _, ok := result.(value.None); !ok {
		cmds = append(cmds, tea.Println(resultStyle.Render(value.Quote(result))))
	}

	return m, tea.Sequence(cmds...)
}

// diagnostic renders err the way the session reports it.
func (m model) diagnostic(err error) string {
	var b strings.Builder
	if rerr := m.session.Report(&b, err, m.color); rerr != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echoCmd, tea.Println(m.listNames()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		m, editCmd := m.handleEdit()

		return m, tea.Sequence(echoCmd, editCmd)

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// handleEdit opens the editor on the most recent program.
func (m model) handleEdit() (model, tea.Cmd) {
	var draft string

	for i := m.history.Len() - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == modeEval {
			draft = entry.Line + "\n"

			break
		}
	}

	cmd := &editCommand{
		draft:   draft,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editCancelledMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.text == "" {
			return editCancelledMsg{}
		}

		_, _ = m.history.WriteWithMode(cmd.text, modeEval)

		return editDoneMsg{text: cmd.text}
	})
}

// listNames lists the global variables with their values, then every
// function with its signature.
func (m model) listNames() string {
	var b strings.Builder

	e := m.session.Engine()
	vars, funcs := e.Names()

	for _, name := range vars {
		v, _ := e.Var(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render("= "+value.Quote(v)))
	}

	for _, name := range funcs {
		sig, _ := getSignature(e, name)
		fmt.Fprintf(&b, "  %s\n", suggestionStyle.Render(sig))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// recall loads a history entry into the input, switching mode if needed.
// Multi-line entries become the pending block.
func (m *model) recall(entry HistoryEntry) {
	if m.mode != entry.Mode {
		*m, _ = m.switchToMode(entry.Mode)
	}

	m.pending = nil
	line := entry.Line

	if entry.IsBlock() {
		m.pending = strings.Split(entry.Line, "\n")
		line = ""
	}

	m.setPrompt()
	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	refreshMatches(m, false)
}

// resetInput leaves history navigation with an empty input line.
func (m *model) resetInput() {
	m.historyIdx = m.history.Len()
	m.pending = nil
	m.setPrompt()
	m.input.SetValue("")
	refreshMatches(m, false)
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			m.recall(entry)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			m.recall(entry)
		}
	} else {
		m.resetInput()
	}

	return m, nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			m.historyIdx = i
			m.recall(entry)

			return m, nil
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			m.historyIdx = i
			m.recall(entry)

			return m, nil
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		m.resetInput()
	}

	return m, nil
}

// beginAltNav saves the input state on the first Alt navigation and switches
// to command mode.
func (m *model) beginAltNav() {
	if m.altNavActive {
		return
	}

	m.altNavActive = true
	m.altNavOrigMode = m.mode
	m.altNavOrigText = m.input.Value()
	m.altNavOrigCursor = m.input.Position()

	if m.mode != modeCtrl {
		*m, _ = m.switchToMode(modeCtrl)
	}
}

// endAltNav restores the input state saved by beginAltNav.
func (m *model) endAltNav() {
	if !m.altNavActive {
		return
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		*m, _ = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(m, false)
}

func (m model) historyPrevCtrl() (model, tea.Cmd) {
	m.beginAltNav()

	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == modeCtrl {
			m.historyIdx = i
			m.recall(entry)

			return m, nil
		}
	}

	// Reached start of ctrl history - restore original state
	m.endAltNav()

	return m, nil
}

func (m model) historyNextCtrl() (model, tea.Cmd) {
	m.beginAltNav()

	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == modeCtrl {
			m.historyIdx = i
			m.recall(entry)

			return m, nil
		}
	}

	// Reached end of ctrl history - restore original state
	m.endAltNav()

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	// Switch to target mode
	m.mode = mode
	m.setPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
