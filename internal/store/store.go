// Package store persists generated documentation to disk and keeps the
// rolling history log of past generations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docwright/docgen/internal/docgen"
)

const (
	// FormatText selects the human-readable layout.
	FormatText = "txt"
	// FormatJSON selects the machine-readable layout.
	FormatJSON = "json"

	historyFileName   = "documentation_history.json"
	fileTimestampForm = "20060102_150405"
)

// HistoryEntry is one record in the history log.
type HistoryEntry struct {
	Timestamp     string          `json:"timestamp"`
	Code          string          `json:"code"`
	Documentation docgen.Document `json:"documentation"`
	Docstring     string          `json:"docstring"`
}

// Store writes documentation files into the output directory and maintains
// the history log in the history directory. The history is held in memory
// and the whole array is rewritten after every append.
type Store struct {
	outputDir  string
	historyDir string
	now        func() time.Time
	history    []HistoryEntry
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithClock overrides the clock used for filenames and history timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// New builds a store rooted at the given directories. An existing history
// file is loaded so the log survives restarts.
func New(outputDir, historyDir string, opts ...Option) (*Store, error) {
	store := &Store{
		outputDir:  outputDir,
		historyDir: historyDir,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if err := store.loadHistory(); err != nil {
		return nil, err
	}
	return store, nil
}

// SaveDocumentation writes the document, docstring, and original code to a
// timestamped file in the requested format and returns the file path.
func (s *Store) SaveDocumentation(doc docgen.Document, docstring, code, format string) (string, error) {
	var content []byte
	var extension string
	switch format {
	case FormatJSON:
		extension = FormatJSON
		payload := struct {
			Documentation docgen.Document `json:"documentation"`
			Docstring     string          `json:"docstring"`
			OriginalCode  string          `json:"original_code"`
		}{Documentation: doc, Docstring: docstring, OriginalCode: code}
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("store: encode documentation: %w", err)
		}
		content = encoded
	case FormatText, "":
		extension = FormatText
		content = []byte(renderText(doc, docstring, code))
	default:
		return "", fmt.Errorf("store: unsupported output format %q", format)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("store: ensure output dir: %w", err)
	}
	name := fmt.Sprintf("documentation_%s.%s", s.now().Format(fileTimestampForm), extension)
	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("store: write %s: %w", path, err)
	}
	return path, nil
}

// AppendHistory records a generation and rewrites the history file.
func (s *Store) AppendHistory(code string, doc docgen.Document, docstring string) error {
	s.history = append(s.history, HistoryEntry{
		Timestamp:     s.now().Format(time.RFC3339),
		Code:          code,
		Documentation: doc,
		Docstring:     docstring,
	})
	return s.saveHistory()
}

// History returns a copy of the recorded entries in append order.
func (s *Store) History() []HistoryEntry {
	entries := make([]HistoryEntry, len(s.history))
	copy(entries, s.history)
	return entries
}

// HistoryPath returns the on-disk location of the history file.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.historyDir, historyFileName)
}

func (s *Store) loadHistory() error {
	data, err := os.ReadFile(s.HistoryPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("store: read history: %w", err)
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("store: parse history: %w", err)
	}
	s.history = entries
	return nil
}

func (s *Store) saveHistory() error {
	if err := os.MkdirAll(s.historyDir, 0o755); err != nil {
		return fmt.Errorf("store: ensure history dir: %w", err)
	}
	encoded, err := json.MarshalIndent(s.history, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode history: %w", err)
	}
	if err := os.WriteFile(s.HistoryPath(), encoded, 0o644); err != nil {
		return fmt.Errorf("store: write history: %w", err)
	}
	return nil
}

// renderText lays out the fixed human-readable format.
func renderText(doc docgen.Document, docstring, code string) string {
	var b strings.Builder
	b.WriteString("=== Original Code ===\n\n")
	b.WriteString(code)
	b.WriteString("\n\n=== Documentation ===\n\n")
	b.WriteString("Overview:\n")
	b.WriteString(strings.TrimSpace(doc.Overview))
	b.WriteString("\n\nFunctions:\n")
	b.WriteString(strings.TrimSpace(doc.Functions))
	b.WriteString("\n\nParameters:\n")
	b.WriteString(strings.TrimSpace(doc.Parameters))
	b.WriteString("\n\nExamples:\n")
	b.WriteString(strings.TrimSpace(doc.Examples))
	b.WriteString("\n\nImprovements:\n")
	for _, improvement := range doc.Improvements {
		b.WriteString("- " + improvement + "\n")
	}
	b.WriteString("\n\n=== Generated Docstring ===\n\n")
	b.WriteString(docstring)
	return b.String()
}
