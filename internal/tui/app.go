// internal/tui/app.go
//
// Interactive shell for the documentation generator, built on bubbletea's
// Elm architecture: the App model holds all state, Update reacts to
// messages, View renders the current screen.
//
// The menu loop is an explicit state machine: each screen is an appState,
// and generation runs asynchronously through a tea.Cmd so the interface
// stays responsive while the model call is in flight.

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docwright/docgen/internal/config"
	"github.com/docwright/docgen/internal/docgen"
	"github.com/docwright/docgen/internal/logbook"
	"github.com/docwright/docgen/internal/store"
	"github.com/docwright/docgen/internal/tokenizer"
)

// appState represents which screen we're on.
type appState int

const (
	stateMenu          appState = iota // main menu
	stateCodeEntry                     // textarea for pasting code
	stateFilePrompt                    // path prompt for loading code from disk
	stateLanguagePrompt                // language selection before documenting
	stateStylePrompt                   // docstring style selection
	stateFormatPrompt                  // output format before saving
	stateGenerating                    // model call in flight
	stateResult                        // rendered document / docstring
	stateHistory                       // past generations
	stateLanguages                     // supported languages and styles
)

// menuAction identifies what the selected menu entry asked for.
type menuAction int

const (
	actionNone menuAction = iota
	actionDocument
	actionDocstring
	actionDocumentAndSave
	actionLoadFile
	actionHistory
	actionLanguages
	actionExit
)

// generationDoneMsg carries the outcome of an async model call back into Update.
type generationDoneMsg struct {
	document  docgen.Document
	docstring string
	savedPath string
	err       error
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title  string
	desc   string
	action menuAction
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithTokenCounter attaches a token counter used to estimate request size.
func WithTokenCounter(counter tokenizer.Counter) AppOption {
	return func(a *App) {
		a.counter = counter
	}
}

// App is the application model. It holds all state for the session.
type App struct {
	state  appState
	action menuAction

	// ctx is cancelled when the session quits so an in-flight model call
	// is abandoned instead of finishing against a dead program.
	ctx    context.Context
	cancel context.CancelFunc

	config    *config.Config
	generator *docgen.Generator
	store     *store.Store
	logbook   *logbook.Logbook
	counter   tokenizer.Counter

	menu      list.Model
	codeInput textarea.Model
	prompt    textinput.Model
	spin      spinner.Model

	code       string
	language   string
	style      string
	format     string
	document   docgen.Document
	docstring  string
	savedPath  string
	tokenCount int

	statusMsg string
	width     int
	height    int
}

// NewApp builds the interactive shell around an already-wired generator,
// store, and logbook.
func NewApp(cfg *config.Config, gen *docgen.Generator, st *store.Store, book *logbook.Logbook, opts ...AppOption) *App {
	menu := list.New(buildMenuItems(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⬡ CODE DOCUMENTATION ASSISTANT"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	codeInput := textarea.New()
	codeInput.Placeholder = "Paste code here..."
	codeInput.CharLimit = 0

	prompt := textinput.New()
	prompt.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))

	app := &App{
		state:     stateMenu,
		config:    cfg,
		generator: gen,
		store:     st,
		logbook:   book,
		menu:      menu,
		codeInput: codeInput,
		prompt:    prompt,
		spin:      spin,
		language:  "python",
		style:     "google",
		format:    store.FormatText,
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	book.Info("Session opened · model: %s", cfg.Model)
	return app
}

func buildMenuItems() []list.Item {
	return []list.Item{
		menuItem{title: "Generate Documentation", desc: "Document a pasted code snippet", action: actionDocument},
		menuItem{title: "Generate Docstring", desc: "Produce a docstring for a function or class", action: actionDocstring},
		menuItem{title: "Document and Save", desc: "Generate documentation plus docstring and write it to disk", action: actionDocumentAndSave},
		menuItem{title: "Load Code From File", desc: "Read a source file and document it", action: actionLoadFile},
		menuItem{title: "View History", desc: "Browse past generations", action: actionHistory},
		menuItem{title: "Supported Languages", desc: "List languages and docstring styles", action: actionLanguages},
		menuItem{title: "Exit", desc: "Quit the assistant", action: actionExit},
	}
}

func (a *App) logInfo(format string, args ...any) {
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		a.codeInput.SetWidth(max(20, msg.Width-8))
		a.codeInput.SetHeight(max(5, msg.Height-14))
		return a, nil

	case generationDoneMsg:
		return a.finishGeneration(msg)

	case spinner.TickMsg:
		if a.state == stateGenerating {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocused(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a.quit()
	case "q":
		if a.state == stateMenu {
			return a.quit()
		}
		if a.state == stateHistory || a.state == stateLanguages || a.state == stateResult {
			return a.returnToMenu()
		}
	case "esc":
		if a.state == stateGenerating {
			return a, nil
		}
		if a.state != stateMenu {
			return a.returnToMenu()
		}
	case "ctrl+d":
		if a.state == stateCodeEntry {
			return a.submitCode(a.codeInput.Value())
		}
	case "enter":
		switch a.state {
		case stateMenu:
			return a.handleMenuSelection()
		case stateFilePrompt:
			return a.submitFilePath(a.prompt.Value())
		case stateLanguagePrompt:
			return a.submitLanguage(a.prompt.Value())
		case stateStylePrompt:
			return a.submitStyle(a.prompt.Value())
		case stateFormatPrompt:
			return a.submitFormat(a.prompt.Value())
		case stateResult, stateHistory, stateLanguages:
			return a.returnToMenu()
		}
	}
	return a.updateFocused(msg)
}

// updateFocused routes remaining messages to whichever component owns the screen.
func (a *App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case stateMenu:
		a.menu, cmd = a.menu.Update(msg)
	case stateCodeEntry:
		a.codeInput, cmd = a.codeInput.Update(msg)
	case stateFilePrompt, stateLanguagePrompt, stateStylePrompt, stateFormatPrompt:
		a.prompt, cmd = a.prompt.Update(msg)
	}
	return a, cmd
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.menu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	a.logInfo("Menu · %s selected", item.title)

	switch item.action {
	case actionDocument, actionDocstring, actionDocumentAndSave:
		a.action = item.action
		return a.beginCodeEntry()
	case actionLoadFile:
		a.action = actionDocumentAndSave
		return a.beginPrompt(stateFilePrompt, "Path to source file", "")
	case actionHistory:
		a.state = stateHistory
		a.statusMsg = fmt.Sprintf("%d entries", len(a.store.History()))
		return a, nil
	case actionLanguages:
		a.state = stateLanguages
		a.statusMsg = ""
		return a, nil
	case actionExit:
		return a.quit()
	}
	return a, nil
}

func (a *App) beginCodeEntry() (tea.Model, tea.Cmd) {
	a.state = stateCodeEntry
	a.codeInput.Reset()
	a.codeInput.Focus()
	a.statusMsg = "Ctrl+D → continue    Esc → back"
	return a, textarea.Blink
}

func (a *App) beginPrompt(next appState, label, initial string) (tea.Model, tea.Cmd) {
	a.state = next
	a.prompt.Prompt = label + ": "
	a.prompt.SetValue(initial)
	a.prompt.CursorEnd()
	a.prompt.Focus()
	a.statusMsg = "Enter → continue    Esc → back"
	return a, textinput.Blink
}

func (a *App) submitCode(raw string) (tea.Model, tea.Cmd) {
	if err := docgen.ValidateCode(raw); err != nil {
		a.statusMsg = "Code input cannot be empty"
		a.logError("Empty code input rejected")
		return a, nil
	}
	a.code = raw
	a.tokenCount = a.estimateTokens(raw)
	switch a.action {
	case actionDocstring:
		return a.beginPrompt(stateStylePrompt, "Docstring style ("+strings.Join(docgen.SupportedStyles(), ", ")+")", a.style)
	default:
		return a.beginPrompt(stateLanguagePrompt, "Language", a.language)
	}
}

func (a *App) submitFilePath(raw string) (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(raw)
	if path == "" {
		a.statusMsg = "File path cannot be empty"
		return a, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Cannot read %s: %v", path, err)
		a.logError("File load failed: %v", err)
		return a, nil
	}
	if err := docgen.ValidateCode(string(data)); err != nil {
		a.statusMsg = fmt.Sprintf("%s is empty", filepath.Base(path))
		return a, nil
	}
	a.code = string(data)
	a.tokenCount = a.estimateTokens(a.code)
	a.logInfo("Loaded %s (%d bytes)", path, len(data))
	return a.beginPrompt(stateLanguagePrompt, "Language", a.language)
}

func (a *App) submitLanguage(raw string) (tea.Model, tea.Cmd) {
	language := strings.ToLower(strings.TrimSpace(raw))
	if err := docgen.ValidateLanguage(language); err != nil {
		a.statusMsg = fmt.Sprintf("Unsupported language %q · supported: %s", raw, strings.Join(docgen.SupportedLanguages(), ", "))
		return a, nil
	}
	a.language = language
	if a.action == actionDocumentAndSave {
		return a.beginPrompt(stateFormatPrompt, "Output format (txt, json)", a.format)
	}
	return a.startGeneration()
}

func (a *App) submitStyle(raw string) (tea.Model, tea.Cmd) {
	style := strings.ToLower(strings.TrimSpace(raw))
	if err := docgen.ValidateStyle(style); err != nil {
		a.statusMsg = fmt.Sprintf("Unsupported style %q · supported: %s", raw, strings.Join(docgen.SupportedStyles(), ", "))
		return a, nil
	}
	a.style = style
	return a.startGeneration()
}

func (a *App) submitFormat(raw string) (tea.Model, tea.Cmd) {
	format := strings.ToLower(strings.TrimSpace(raw))
	if format != store.FormatText && format != store.FormatJSON {
		a.statusMsg = fmt.Sprintf("Unsupported format %q · use txt or json", raw)
		return a, nil
	}
	a.format = format
	return a.startGeneration()
}

// startGeneration flips into the spinner screen and launches the model call
// as an async command. The closure captures everything it needs so Update
// stays free of blocking work.
func (a *App) startGeneration() (tea.Model, tea.Cmd) {
	a.state = stateGenerating
	if a.tokenCount > 0 {
		a.statusMsg = fmt.Sprintf("Sending ~%d tokens to %s...", a.tokenCount, a.config.Model)
	} else {
		a.statusMsg = fmt.Sprintf("Waiting for %s...", a.config.Model)
	}
	a.logInfo("Generation started · language: %s", a.language)

	ctx := a.ctx
	action := a.action
	code, language, style, format := a.code, a.language, a.style, a.format
	gen, st := a.generator, a.store

	run := func() tea.Msg {
		var out generationDoneMsg

		if action == actionDocstring {
			docstring, err := gen.GenerateDocstring(ctx, code, style)
			out.docstring = docstring
			out.err = err
			return out
		}

		document, err := gen.GenerateDocumentation(ctx, code, language)
		if err != nil {
			out.err = err
			return out
		}
		out.document = document

		if action == actionDocumentAndSave && !document.Failed() {
			docstring, err := gen.GenerateDocstring(ctx, code, style)
			if err != nil {
				out.err = err
				return out
			}
			out.docstring = docstring
			path, err := st.SaveDocumentation(document, docstring, code, format)
			if err != nil {
				out.err = err
				return out
			}
			out.savedPath = path
		}
		return out
	}
	return a, tea.Batch(a.spin.Tick, run)
}

func (a *App) finishGeneration(msg generationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.logError("Generation failed: %v", msg.err)
		a.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		a.state = stateMenu
		return a, nil
	}
	a.document = msg.document
	a.docstring = msg.docstring
	a.savedPath = msg.savedPath
	a.state = stateResult

	if msg.document.Failed() {
		a.logError("Model reported failure: %s", msg.document.Err)
		a.statusMsg = "Generation failed"
		return a, nil
	}
	// Docstring-only generations carry no document and are not recorded.
	if a.action != actionDocstring {
		if err := a.store.AppendHistory(a.code, msg.document, msg.docstring); err != nil {
			a.logError("History append failed: %v", err)
		}
	}
	if msg.savedPath != "" {
		a.statusMsg = fmt.Sprintf("Documentation saved to: %s", msg.savedPath)
		a.logInfo("Saved %s", msg.savedPath)
	} else {
		a.statusMsg = "Enter → back to menu"
	}
	a.logInfo("Generation complete")
	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	a.logInfo("Session closed")
	return a, tea.Quit
}

func (a *App) returnToMenu() (tea.Model, tea.Cmd) {
	a.state = stateMenu
	a.action = actionNone
	a.prompt.Blur()
	a.codeInput.Blur()
	a.statusMsg = ""
	return a, nil
}

func (a *App) estimateTokens(text string) int {
	if a.counter == nil {
		return 0
	}
	count, err := a.counter.Count(text)
	if err != nil {
		return 0
	}
	return count
}

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateMenu:
		content = a.menu.View()
	case stateCodeEntry:
		content = a.renderCodeEntry()
	case stateFilePrompt, stateLanguagePrompt, stateStylePrompt, stateFormatPrompt:
		content = a.prompt.View()
	case stateGenerating:
		content = fmt.Sprintf("%s Generating documentation...", a.spin.View())
	case stateResult:
		content = a.renderResult()
	case stateHistory:
		content = a.renderHistory()
	case stateLanguages:
		content = a.renderLanguages()
	}
	return a.renderFrame(content)
}

func (a *App) renderFrame(content string) string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ DOCGEN")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(content)
	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	lines, total := a.logbook.Tail(6)
	if total == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderCodeEntry() string {
	label := "Paste the code to document"
	if a.action == actionDocstring {
		label = "Paste the function or class"
	}
	head := lipgloss.NewStyle().Bold(true).Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, head, a.codeInput.View())
}

func (a *App) renderResult() string {
	if a.document.Failed() {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Render(a.document.Err)
	}

	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	var sections []string
	appendSection := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		sections = append(sections, heading.Render(title), body, "")
	}
	appendSection("Overview", a.document.Overview)
	appendSection("Functions", a.document.Functions)
	appendSection("Parameters and Return Values", a.document.Parameters)
	appendSection("Usage Examples", a.document.Examples)
	if len(a.document.Improvements) > 0 {
		var bullets []string
		for _, item := range a.document.Improvements {
			bullets = append(bullets, "- "+item)
		}
		appendSection("Potential Improvements", strings.Join(bullets, "\n"))
	}
	if a.docstring != "" {
		appendSection("Docstring", a.docstring)
	}
	if len(sections) == 0 {
		return "The model returned an empty reply."
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderHistory() string {
	entries := a.store.History()
	if len(entries) == 0 {
		return "No documentation generated yet."
	}
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	var rows []string
	// Newest entries first.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		overview := strings.TrimSpace(entry.Documentation.Overview)
		if overview == "" {
			overview = "(no overview)"
		}
		rows = append(rows,
			heading.Render(entry.Timestamp),
			overview,
			faint.Render(fmt.Sprintf("%d characters of code", len(entry.Code))),
			"",
		)
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderLanguages() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	return strings.Join([]string{
		heading.Render("Supported Languages"),
		strings.Join(docgen.SupportedLanguages(), ", "),
		"",
		heading.Render("Docstring Styles"),
		strings.Join(docgen.SupportedStyles(), ", "),
	}, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
