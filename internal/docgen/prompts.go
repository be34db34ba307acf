package docgen

import (
	"fmt"
	"strings"
)

const (
	documentationSystemPrompt = "You are an expert programmer who specializes in writing clear, comprehensive code documentation."
	docstringSystemPrompt     = "You are an expert at writing clear, comprehensive function docstrings."

	documentationPromptTemplate = `Analyze this %s code and provide the following:
1. A brief overview of what the code does
2. Detailed function documentation
3. Parameters and return values
4. Usage examples
5. Any potential improvements or considerations

Code to analyze:
%s`

	docstringPromptTemplate = `Write a comprehensive docstring for this function %s:

%s`

	defaultStylePhrase = "using standard docstrings"
)

var docstringStylePhrases = map[string]string{
	"google": "using Google style docstrings",
	"numpy":  "using NumPy style docstrings",
	"sphinx": "using Sphinx style docstrings",
}

// BuildDocumentationPrompt assembles the system and user prompts for the
// full-documentation request.
func BuildDocumentationPrompt(code, language string) (system, user string) {
	return documentationSystemPrompt, fmt.Sprintf(documentationPromptTemplate, language, code)
}

// BuildDocstringPrompt assembles the system and user prompts for the
// docstring request. Unknown styles fall back to a generic phrase.
func BuildDocstringPrompt(code, style string) (system, user string) {
	phrase, ok := docstringStylePhrases[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		phrase = defaultStylePhrase
	}
	return docstringSystemPrompt, fmt.Sprintf(docstringPromptTemplate, phrase, code)
}
