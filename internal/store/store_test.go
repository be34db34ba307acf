package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docwright/docgen/internal/docgen"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
}

func testDocument() docgen.Document {
	return docgen.Document{
		Overview:     "Does X.",
		Functions:    "foo() does Y.",
		Parameters:   "none",
		Examples:     "foo()",
		Improvements: []string{"Add tests", "Handle errors"},
	}
}

func TestSaveDocumentationText(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "out"), filepath.Join(dir, "hist"), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	path, err := s.SaveDocumentation(testDocument(), `"""Docstring."""`, "def foo(): pass", FormatText)
	if err != nil {
		t.Fatalf("save documentation: %v", err)
	}
	if filepath.Base(path) != "documentation_20240309_143005.txt" {
		t.Fatalf("unexpected filename: %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"=== Original Code ===",
		"def foo(): pass",
		"=== Documentation ===",
		"Overview:\nDoes X.",
		"Functions:\nfoo() does Y.",
		"Parameters:\nnone",
		"Examples:\nfoo()",
		"Improvements:\n- Add tests\n- Handle errors\n",
		"=== Generated Docstring ===",
		`"""Docstring."""`,
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("saved text missing %q:\n%s", want, content)
		}
	}
}

func TestSaveDocumentationJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "out"), filepath.Join(dir, "hist"), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	path, err := s.SaveDocumentation(testDocument(), "docstring", "code", FormatJSON)
	if err != nil {
		t.Fatalf("save documentation: %v", err)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Fatalf("expected .json path, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("parse saved json: %v", err)
	}
	if payload["docstring"] != "docstring" || payload["original_code"] != "code" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	documentation, ok := payload["documentation"].(map[string]any)
	if !ok {
		t.Fatalf("documentation key missing: %v", payload)
	}
	if documentation["overview"] != "Does X." {
		t.Fatalf("overview = %v", documentation["overview"])
	}
	if _, present := documentation["error"]; present {
		t.Fatalf("error key must be omitted for valid documents")
	}
}

func TestSaveDocumentationRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "out"), filepath.Join(dir, "hist"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := s.SaveDocumentation(testDocument(), "", "", "yaml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestHistoryAppendRewritesFile(t *testing.T) {
	dir := t.TempDir()
	historyDir := filepath.Join(dir, "hist")
	s, err := New(filepath.Join(dir, "out"), historyDir, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.AppendHistory("code-1", testDocument(), "doc-1"); err != nil {
		t.Fatalf("append history: %v", err)
	}
	if err := s.AppendHistory("code-2", testDocument(), "doc-2"); err != nil {
		t.Fatalf("append history: %v", err)
	}
	data, err := os.ReadFile(s.HistoryPath())
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parse history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Code != "code-1" || entries[1].Code != "code-2" {
		t.Fatalf("entries out of order: %+v", entries)
	}
	if entries[0].Timestamp != fixedClock().Format(time.RFC3339) {
		t.Fatalf("timestamp = %s", entries[0].Timestamp)
	}
}

func TestHistoryLoadedAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	historyDir := filepath.Join(dir, "hist")
	first, err := New(filepath.Join(dir, "out"), historyDir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := first.AppendHistory("code", testDocument(), "doc"); err != nil {
		t.Fatalf("append history: %v", err)
	}

	second, err := New(filepath.Join(dir, "out"), historyDir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if got := second.History(); len(got) != 1 || got[0].Code != "code" {
		t.Fatalf("reloaded history = %+v", got)
	}
}
