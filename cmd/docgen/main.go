// Command docgen is an assistant that documents source code with a language
// model. With no flags it opens the interactive shell; with --file it runs a
// single non-interactive generation and writes the result to disk.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docwright/docgen/internal/config"
	"github.com/docwright/docgen/internal/docgen"
	"github.com/docwright/docgen/internal/llm"
	"github.com/docwright/docgen/internal/logbook"
	"github.com/docwright/docgen/internal/store"
	"github.com/docwright/docgen/internal/tokenizer"
	"github.com/docwright/docgen/internal/tui"
)

var (
	flagFile     string
	flagLanguage string
	flagFormat   string
	flagStyle    string
)

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Generate code documentation with a language model",
	Long: `Docgen sends source code to a chat-completion model and turns the reply
into structured documentation: an overview, function docs, parameters,
usage examples, improvement suggestions, and a docstring.

Run it without flags for the interactive shell, or pass --file to
document a single source file and exit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFile != "" {
			return runBatch(cmd.Context())
		}
		return runInteractive()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagFile, "file", "", "document this source file and exit")
	rootCmd.Flags().StringVar(&flagLanguage, "language", "python", "language of the source code")
	rootCmd.Flags().StringVar(&flagFormat, "format", store.FormatText, "output format: txt or json")
	rootCmd.Flags().StringVar(&flagStyle, "style", "google", "docstring style: google, numpy, or sphinx")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

// buildToolchain loads configuration and wires the client, generator, and
// store that both modes share.
func buildToolchain() (*config.Config, *docgen.Generator, *store.Store, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve working directory: %w", err)
	}
	cfg, err := config.Load(workingDir)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	generator := docgen.NewGenerator(client, docgen.WithTemperature(cfg.Temperature))
	st, err := store.New(cfg.OutputDir, cfg.HistoryDir)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, generator, st, nil
}

func runInteractive() error {
	cfg, generator, st, err := buildToolchain()
	if err != nil {
		return err
	}
	workingDir, _ := os.Getwd()
	book, err := logbook.New(filepath.Join(workingDir, "logs", "docgen.log"))
	if err != nil {
		return err
	}

	opts := []tui.AppOption{}
	if counter, err := tokenizer.NewCounter(cfg.Model); err == nil {
		opts = append(opts, tui.WithTokenCounter(counter))
	}

	app := tui.NewApp(cfg, generator, st, book, opts...)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

func runBatch(ctx context.Context) error {
	// The language label is passed straight through to the prompt; only the
	// interactive shell restricts it to the supported set.
	language := strings.TrimSpace(flagLanguage)
	style := strings.ToLower(strings.TrimSpace(flagStyle))
	if err := docgen.ValidateStyle(style); err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(flagFormat))
	if format != store.FormatText && format != store.FormatJSON {
		return fmt.Errorf("unsupported format %q: use txt or json", flagFormat)
	}

	data, err := os.ReadFile(flagFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", flagFile, err)
	}
	code := string(data)
	if err := docgen.ValidateCode(code); err != nil {
		return fmt.Errorf("%s: %w", flagFile, err)
	}

	_, generator, st, err := buildToolchain()
	if err != nil {
		return err
	}

	document, err := generator.GenerateDocumentation(ctx, code, language)
	if err != nil {
		return err
	}
	if document.Failed() {
		return fmt.Errorf("%s", document.Err)
	}
	docstring, err := generator.GenerateDocstring(ctx, code, style)
	if err != nil {
		return err
	}

	path, err := st.SaveDocumentation(document, docstring, code, format)
	if err != nil {
		return err
	}
	if err := st.AppendHistory(code, document, docstring); err != nil {
		return err
	}
	fmt.Println("Documentation saved to:", path)
	return nil
}
