package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/konst/lang"
	"github.com/ardnew/konst/log"
)

// editedMsg is sent when editing loaded a new session.
type editedMsg struct{ session *lang.Session }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for any other reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  list     List definitions
  edit     Edit definitions in external $EDITOR
  reset    Discard all definitions
  clear    Clear screen
  quit     Exit REPL

Usage:
  let x = 1 + 2;       Define a binding (evaluated when used)
  fn add a b => a + b  Define a function
  add x 4              Evaluate an expression
  {let y = 2; y * x}   Evaluate a block in a new scope

  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to navigate command history
    (restores the previous mode at the end of history)
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
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func prompt(mode inputMode) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// formatEcho formats the echo of submitted input with its mode's prompt.
func formatEcho(mode inputMode, input string) string {
	return prompt(mode) + inputStyle.Render(input)
}

// savedInput is the input line of a mode that is not currently shown.
type savedInput struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	opts         []lang.Option // used to create the session loaded by edit
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	altNav       *altNav       // non-nil during Alt+Up/Down navigation
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	saved        [2]savedInput // indexed by inputMode
}

// altNav records what to restore when Alt+Up/Down navigation runs out of
// command history.
type altNav struct {
	mode  inputMode
	input savedInput
}

// Run starts the interactive session over s. History is loaded from and
// written to history. The edit command loads edited definitions into a new
// session created with opts.
func Run(
	ctx context.Context,
	s *lang.Session,
	history *History,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.Int("history", history.Len()),
		slog.Int("definitions", len(s.Names())),
	)

	p := tea.NewProgram(
		newModel(ctx, s, history, logger, opts),
		tea.WithContext(ctx),
	)
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *lang.Session,
	history *History,
	logger log.Logger,
	opts []lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = prompt(modeEval)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		opts:       opts,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
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
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editedMsg:
		m.session = msg.session
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("definitions", len(m.session.Names())),
		)

		return m, tea.Println(resultStyle.Render("✔ definitions updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hintView() + "\n"
}

// hintView renders the line below the input: the history position, a usage
// hint, the signature of the function being called, or completions.
func (m model) hintView() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render(
			"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)",
		)
	}

	if m.mode == modeEval {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params, body, ok := getSignature(m.session, call.name); ok {
				return renderSignatureHint(call.name, params, body, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
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
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNav = nil
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNav = nil

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		if msg.Alt {
			return m.historyStepCtrl(-1)
		}

		return m.historyStep(-1, anyMode)

	case tea.KeyDown:
		if msg.Alt {
			return m.historyStepCtrl(1)
		}

		return m.historyStep(1, anyMode)

	case tea.KeyShiftUp:
		return m.historyStep(-1, inMode(m.mode))

	case tea.KeyShiftDown:
		return m.historyStep(1, inMode(m.mode))

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNav = nil

		return m.toggleMode(), nil

	case tea.KeyRunes:
		// Space breaks out of tab-cycling, accepting the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNav = nil
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous (dir < 0) completion
// candidate. A single candidate is completed and confirmed immediately.
func (m model) cycle(dir int) (model, tea.Cmd) {
	switch n := len(m.matches); {
	case n == 0:
		return m, nil

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. autoConfirm should
// be false for deletions and cursor navigation so that the user can freely
// edit without unexpected completions.
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

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	// Reset both mode inputs after submission
	m.saved = [2]savedInput{}
	m.input.SetValue("")
	m.tabActive = false
	m.matches = nil

	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl input",
		slog.Int("mode", int(mode)),
		slog.String("input", input),
	)

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m.evaluate(input)
}

func (m model) evaluate(input string) (model, tea.Cmd) {
	echo := tea.Println(formatEcho(modeEval, input))

	result, err := m.session.Eval(m.ctxFunc(), input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval failed",
			slog.Any("error", err),
		)

		return m, tea.Sequence(
			echo,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	if result == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(result)))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatEcho(modeCtrl, input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listDefinitions()))

	case "r", "reset":
		m.session.Reset()

		return m, tea.Sequence(
			echo,
			tea.Println(hintStyle.Render("definitions cleared")),
		)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	opts := m.opts
	cmd := &editCommand{
		session:    m.session,
		newSession: func() *lang.Session { return lang.NewSession(opts...) },
		ctxFunc:    m.ctxFunc,
		logger:     m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == nil:
			return editCancelledMsg{}
		default:
			return editedMsg{session: cmd.edited}
		}
	})
}

func (m model) listDefinitions() string {
	var b strings.Builder

	for name, v := range m.session.Definitions() {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render(formatPreview(name, v, m.width-2)))
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return hintStyle.Render("  no definitions")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func anyMode(HistoryEntry) bool { return true }

func inMode(mode inputMode) func(HistoryEntry) bool {
	return func(e HistoryEntry) bool { return e.Mode == mode }
}

// findHistory returns the nearest entry accepted by match, searching from the
// current history position in direction dir.
func (m model) findHistory(
	dir int,
	match func(HistoryEntry) bool,
) (int, HistoryEntry, bool) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if e, err := m.history.Entry(i); err == nil && match(e) {
			return i, e, true
		}
	}

	return 0, HistoryEntry{}, false
}

// recall shows history entry i in the input line, switching to its mode.
func (m model) recall(i int, e HistoryEntry) model {
	if m.mode != e.Mode {
		m = m.switchToMode(e.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(e.Line)
	m.input.SetCursor(len(e.Line))
	refreshMatches(&m, false)

	return m
}

// historyStep moves to the older (dir < 0) or newer (dir > 0) entry accepted
// by match. Stepping past the newest entry clears the input line.
func (m model) historyStep(
	dir int,
	match func(HistoryEntry) bool,
) (model, tea.Cmd) {
	if i, e, ok := m.findHistory(dir, match); ok {
		return m.recall(i, e), nil
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// historyStepCtrl navigates command history only, switching to command mode
// on the first step. Running out of entries restores the mode and input that
// were active before navigation began.
func (m model) historyStepCtrl(dir int) (model, tea.Cmd) {
	if m.altNav == nil {
		m.altNav = &altNav{
			mode:  m.mode,
			input: savedInput{m.input.Value(), m.input.Position()},
		}

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	if i, e, ok := m.findHistory(dir, inMode(modeCtrl)); ok {
		return m.recall(i, e), nil
	}

	nav := m.altNav
	m.altNav = nil

	if nav.mode != m.mode {
		m = m.switchToMode(nav.mode)
	}

	m.input.SetValue(nav.input.text)
	m.input.SetCursor(nav.input.cursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode saves the input line of the current mode and restores the
// saved input line of mode.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{m.input.Value(), m.input.Position()}

	m.mode = mode
	m.input.Prompt = prompt(mode)
	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	refreshMatches(&m, false)

	return m
}
