package repl

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/value"
)

// testModel returns a model on a fresh session with in-memory history.
func testModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), lang.NewSession(), NewHistory(""), Options{})
}

// typeText sends text to m as typed runes.
func typeText(m model, text string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	return m.handleKey(tea.KeyMsg{Type: k})
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let x = 6 * 7")
	m, cmd := press(m, tea.KeyEnter)

	if cmd == nil {
		t.Fatal("Enter returned no command")
	}

	v, ok := m.session.Engine().Var("x")
	if !ok || v.String() != "42" {
		t.Errorf("x = %v (defined %t), want 42", v, ok)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after Enter, want empty", m.input.Value())
	}

	if m.history.Len() != 1 {
		t.Errorf("history has %d entries, want 1", m.history.Len())
	}
}

func TestModel_EvaluateCapturesPrint(t *testing.T) {
	m := testModel(t)

	m = typeText(m, `print("hi")`)
	m, _ = press(m, tea.KeyEnter)

	if got := m.out.String(); got != "hi\n" {
		t.Errorf("captured output = %q, want %q", got, "hi\n")
	}
}

func TestModel_Block(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "fn double(n):")
	m, _ = press(m, tea.KeyEnter)

	if len(m.pending) != 1 {
		t.Fatalf("pending = %q, want one line", m.pending)
	}

	if got := m.input.Value(); got != indentUnit {
		t.Errorf("continuation input = %q, want %q", got, indentUnit)
	}

	m = typeText(m, "n * 2")
	m, _ = press(m, tea.KeyEnter)

	if len(m.pending) != 2 {
		t.Fatalf("pending = %q, want two lines", m.pending)
	}

	// The prefilled indentation alone counts as an empty line.
	m, _ = press(m, tea.KeyEnter)

	if len(m.pending) != 0 {
		t.Errorf("pending = %q after empty line, want none", m.pending)
	}

	if _, ok := m.session.Engine().Func("double"); !ok {
		t.Fatal("double is not defined")
	}

	entry, err := m.history.GetEntry(0)
	if err != nil {
		t.Fatal(err)
	}

	if want := "fn double(n):\n    n * 2"; entry.Line != want || !entry.IsBlock() {
		t.Errorf("history entry = %q, want block %q", entry.Line, want)
	}
}

func TestModel_Error(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "1 +")
	m, cmd := press(m, tea.KeyEnter)

	if cmd == nil {
		t.Fatal("Enter returned no command")
	}

	if m.quitting {
		t.Error("a program error quit the REPL")
	}

	if diag := m.diagnostic(errors.New("boom")); !strings.Contains(diag, "boom") {
		t.Errorf("diagnostic() = %q, want it to mention %q", diag, "boom")
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let a")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeCtrl {
		t.Fatalf("mode = %v after Esc, want command mode", m.mode)
	}

	if m.input.Value() != "" {
		t.Errorf("command input = %q, want empty", m.input.Value())
	}

	m = typeText(m, "vars")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeEval || m.input.Value() != "let a" {
		t.Errorf("after second Esc: mode = %v input = %q, want eval mode with %q",
			m.mode, m.input.Value(), "let a")
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "vars" {
		t.Errorf("command input = %q, want restored %q", m.input.Value(), "vars")
	}
}

func TestModel_CommandPrefix(t *testing.T) {
	m := testModel(t)

	m = typeText(m, ":vars")
	m, cmd := press(m, tea.KeyEnter)

	if cmd == nil {
		t.Fatal("command returned no tea.Cmd")
	}

	if m.mode != modeEval {
		t.Errorf("mode = %v after ':vars', want eval mode", m.mode)
	}

	entry, err := m.history.GetEntry(0)
	if err != nil || entry.Mode != modeCtrl || entry.Line != "vars" {
		t.Errorf("history entry = %v, %v, want command %q", entry, err, "vars")
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		keys func(model) (model, tea.Cmd)
	}{
		{"ctrl+c on empty line", func(m model) (model, tea.Cmd) {
			return press(m, tea.KeyCtrlC)
		}},
		{"ctrl+d on empty line", func(m model) (model, tea.Cmd) {
			return press(m, tea.KeyCtrlD)
		}},
		{"quit command", func(m model) (model, tea.Cmd) {
			return press(typeText(m, ":quit"), tea.KeyEnter)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := tt.keys(testModel(t))
			if !m.quitting {
				t.Error("model is not quitting")
			}

			if m.View() != "" {
				t.Errorf("View() = %q while quitting, want empty", m.View())
			}
		})
	}
}

func TestModel_CtrlCClears(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "while true:")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyCtrlC)

	if m.quitting {
		t.Fatal("Ctrl+C with input quit the REPL")
	}

	if m.input.Value() != "" || len(m.pending) != 0 {
		t.Errorf("after Ctrl+C: input = %q pending = %q, want both empty",
			m.input.Value(), m.pending)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := testModel(t)

	for _, line := range []string{"let a = 1", "let b = 2"} {
		m = typeText(m, line)
		m, _ = press(m, tea.KeyEnter)
	}

	_, _ = m.history.WriteWithMode("help", modeCtrl)
	m.historyIdx = m.history.Len()

	m, _ = press(m, tea.KeyUp)
	if m.mode != modeCtrl || m.input.Value() != "help" {
		t.Fatalf("Up: mode = %v input = %q, want command %q", m.mode, m.input.Value(), "help")
	}

	m, _ = press(m, tea.KeyUp)
	if m.mode != modeEval || m.input.Value() != "let b = 2" {
		t.Fatalf("Up: mode = %v input = %q, want %q", m.mode, m.input.Value(), "let b = 2")
	}

	m, _ = press(m, tea.KeyShiftUp)
	if m.input.Value() != "let a = 1" {
		t.Errorf("Shift+Up: input = %q, want %q", m.input.Value(), "let a = 1")
	}

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("past the end: input = %q index = %d, want empty at %d",
			m.input.Value(), m.historyIdx, m.history.Len())
	}
}

func TestModel_AltNavigationRestores(t *testing.T) {
	m := testModel(t)
	_, _ = m.history.WriteWithMode("vars", modeCtrl)
	m.historyIdx = m.history.Len()

	m = typeText(m, "draft")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp, Alt: true})

	if m.mode != modeCtrl || m.input.Value() != "vars" {
		t.Fatalf("Alt+Up: mode = %v input = %q, want command %q", m.mode, m.input.Value(), "vars")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown, Alt: true})

	if m.mode != modeEval || m.input.Value() != "draft" {
		t.Errorf("Alt+Down: mode = %v input = %q, want eval with %q",
			m.mode, m.input.Value(), "draft")
	}
}

func TestModel_RecallBlock(t *testing.T) {
	m := testModel(t)
	_, _ = m.history.WriteWithMode("while false:\n    none", modeEval)
	m.historyIdx = m.history.Len()

	m, _ = press(m, tea.KeyUp)

	if len(m.pending) != 2 || m.input.Value() != "" {
		t.Errorf("recalled block: pending = %q input = %q", m.pending, m.input.Value())
	}

	m, _ = press(m, tea.KeyEnter)

	if len(m.pending) != 0 {
		t.Errorf("pending = %q after running the block", m.pending)
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := testModel(t)
	m.session.Engine().SetVar("velocity", value.NewInt(3))

	m = typeText(m, "veloc")
	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "velocity" {
		t.Errorf("input after Tab = %q, want %q", got, "velocity")
	}
}

func TestModel_View(t *testing.T) {
	m := testModel(t)

	if view := m.View(); !strings.Contains(view, "Type a statement") {
		t.Errorf("View() = %q, want the eval hint", view)
	}

	m = typeText(m, "pathjoin(1, ")
	if view := m.View(); !strings.Contains(view, "...args") {
		t.Errorf("View() = %q, want the pathjoin signature", view)
	}
}

func TestContinuation(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"x = 1", ""},
		{"while x:", indentUnit},
		{"  while x:  ", "  " + indentUnit},
		{"\tx = 1", "\t"},
	}

	for _, tt := range tests {
		if got := continuation(tt.line); got != tt.want {
			t.Errorf("continuation(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
