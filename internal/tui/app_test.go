package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwright/docgen/internal/config"
	"github.com/docwright/docgen/internal/docgen"
	"github.com/docwright/docgen/internal/llm"
	"github.com/docwright/docgen/internal/logbook"
	"github.com/docwright/docgen/internal/store"
)

const sampleReply = `1. Brief Overview:
Adds two numbers.

2. Detailed Function Documentation:
add(a, b) returns the sum.

3. Parameters and Return Values:
a, b: int. Returns int.

4. Usage Examples:
add(1, 2)

5. Any potential improvements
- Add type hints`

type fakeProvider struct {
	calls    int
	lastReq  llm.Request
	response string
	failWith error
}

func (f *fakeProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.calls++
	f.lastReq = req
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &llm.Response{Content: f.response}, nil
}

func newTestApp(t *testing.T, provider *fakeProvider) *App {
	t.Helper()
	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "out"), filepath.Join(dir, "hist"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	book, err := logbook.New(filepath.Join(dir, "session.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	cfg := &config.Config{Model: "gpt-4", Temperature: 0.7}
	return NewApp(cfg, docgen.NewGenerator(provider), st, book)
}

// runCommands executes a command tree (expanding batches) and returns every
// message it produced.
func runCommands(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func findGenerationDone(t *testing.T, msgs []tea.Msg) generationDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(generationDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no generation result among %d messages", len(msgs))
	return generationDoneMsg{}
}

func TestBlankCodeIsRejectedBeforeAnyModelCall(t *testing.T) {
	provider := &fakeProvider{response: sampleReply}
	app := newTestApp(t, provider)
	app.action = actionDocument
	app.state = stateCodeEntry

	app.submitCode("   \n\t  ")
	if app.state != stateCodeEntry {
		t.Fatalf("state = %d, want code entry", app.state)
	}
	if provider.calls != 0 {
		t.Fatalf("provider called %d times for blank input", provider.calls)
	}
	if app.statusMsg == "" {
		t.Fatalf("expected a status message for blank input")
	}
}

func TestDocumentFlowProducesParsedResult(t *testing.T) {
	provider := &fakeProvider{response: sampleReply}
	app := newTestApp(t, provider)
	app.action = actionDocument
	app.state = stateCodeEntry

	app.submitCode("def add(a, b): return a + b")
	if app.state != stateLanguagePrompt {
		t.Fatalf("state = %d, want language prompt", app.state)
	}

	_, cmd := app.submitLanguage("python")
	if app.state != stateGenerating {
		t.Fatalf("state = %d, want generating", app.state)
	}
	done := findGenerationDone(t, runCommands(t, cmd))
	app.Update(done)

	if app.state != stateResult {
		t.Fatalf("state = %d, want result", app.state)
	}
	if app.document.Overview != "Adds two numbers." {
		t.Fatalf("overview = %q", app.document.Overview)
	}
	if len(app.document.Improvements) != 1 || app.document.Improvements[0] != "Add type hints" {
		t.Fatalf("improvements = %v", app.document.Improvements)
	}
	if !strings.Contains(provider.lastReq.Prompt, "python code") {
		t.Fatalf("prompt should name the language: %q", provider.lastReq.Prompt)
	}
	if got := app.store.History(); len(got) != 1 {
		t.Fatalf("history entries = %d, want 1", len(got))
	}
	if view := app.View(); !strings.Contains(view, "Adds two numbers.") {
		t.Fatalf("result view missing overview:\n%s", view)
	}
}

func TestDocstringFlow(t *testing.T) {
	provider := &fakeProvider{response: "\n\"\"\"Add two numbers.\"\"\"\n"}
	app := newTestApp(t, provider)
	app.action = actionDocstring
	app.state = stateCodeEntry

	app.submitCode("def add(a, b): return a + b")
	if app.state != stateStylePrompt {
		t.Fatalf("state = %d, want style prompt", app.state)
	}

	_, cmd := app.submitStyle("numpy")
	done := findGenerationDone(t, runCommands(t, cmd))
	app.Update(done)

	if app.state != stateResult {
		t.Fatalf("state = %d, want result", app.state)
	}
	if app.docstring != "\"\"\"Add two numbers.\"\"\"" {
		t.Fatalf("docstring = %q", app.docstring)
	}
	if !strings.Contains(provider.lastReq.Prompt, "NumPy") {
		t.Fatalf("prompt should carry the style phrase: %q", provider.lastReq.Prompt)
	}
	if got := app.store.History(); len(got) != 0 {
		t.Fatalf("docstring-only generations must not enter history, got %d entries", len(got))
	}
}

func TestDocumentAndSaveFlowWritesFile(t *testing.T) {
	provider := &fakeProvider{response: sampleReply}
	app := newTestApp(t, provider)
	app.action = actionDocumentAndSave
	app.state = stateCodeEntry

	app.submitCode("def add(a, b): return a + b")
	app.submitLanguage("python")
	if app.state != stateFormatPrompt {
		t.Fatalf("state = %d, want format prompt", app.state)
	}

	_, cmd := app.submitFormat("json")
	done := findGenerationDone(t, runCommands(t, cmd))
	app.Update(done)

	if app.savedPath == "" || !strings.HasSuffix(app.savedPath, ".json") {
		t.Fatalf("saved path = %q", app.savedPath)
	}
	if !strings.Contains(app.statusMsg, "Documentation saved to:") {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if provider.calls != 2 {
		t.Fatalf("provider calls = %d, want documentation + docstring", provider.calls)
	}
}

func TestUnsupportedLanguageKeepsPrompt(t *testing.T) {
	provider := &fakeProvider{response: sampleReply}
	app := newTestApp(t, provider)
	app.action = actionDocument
	app.state = stateCodeEntry

	app.submitCode("code")
	app.submitLanguage("klingon")
	if app.state != stateLanguagePrompt {
		t.Fatalf("state = %d, want language prompt", app.state)
	}
	if provider.calls != 0 {
		t.Fatalf("provider called %d times for invalid language", provider.calls)
	}
	if !strings.Contains(app.statusMsg, "Unsupported language") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestModelFailureShowsErrorDocumentWithoutHistory(t *testing.T) {
	provider := &fakeProvider{failWith: errors.New("connection refused")}
	app := newTestApp(t, provider)
	app.action = actionDocument
	app.state = stateCodeEntry

	app.submitCode("code")
	_, cmd := app.submitLanguage("go")
	done := findGenerationDone(t, runCommands(t, cmd))
	app.Update(done)

	if app.state != stateResult {
		t.Fatalf("state = %d, want result", app.state)
	}
	if !app.document.Failed() {
		t.Fatalf("expected a failed document")
	}
	if got := app.store.History(); len(got) != 0 {
		t.Fatalf("failed generations must not enter history, got %d entries", len(got))
	}
	if view := app.View(); !strings.Contains(view, "Failed to generate documentation") {
		t.Fatalf("view should surface the failure:\n%s", view)
	}
}

func TestQuitCancelsPendingGeneration(t *testing.T) {
	app := newTestApp(t, &fakeProvider{response: sampleReply})
	if app.ctx.Err() != nil {
		t.Fatalf("context cancelled before quit: %v", app.ctx.Err())
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if app.ctx.Err() == nil {
		t.Fatalf("quit must cancel the generation context")
	}
}

func TestMenuExitQuits(t *testing.T) {
	app := newTestApp(t, &fakeProvider{response: sampleReply})
	items := app.menu.Items()
	for idx, item := range items {
		if item.(menuItem).action == actionExit {
			app.menu.Select(idx)
		}
	}
	_, cmd := app.handleMenuSelection()
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("expected quit message, got %#v", msg)
	}
}
