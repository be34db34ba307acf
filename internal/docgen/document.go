// Package docgen turns source code into structured documentation by sending
// it to a language model and parsing the reply into a typed document.
package docgen

// Document is the structured result parsed from a single model reply.
// Overview, Functions, Parameters, and Examples hold newline-joined free
// text; Improvements is an ordered list of bullet points with the leading
// marker stripped.
type Document struct {
	Overview     string   `json:"overview"`
	Functions    string   `json:"functions"`
	Parameters   string   `json:"parameters"`
	Examples     string   `json:"examples"`
	Improvements []string `json:"improvements"`

	// Err is set only when the document stands in for a failed model call.
	// When set, no other field is populated.
	Err string `json:"error,omitempty"`
}

// Failed reports whether the document represents a model-call failure
// rather than a parsed response.
func (d Document) Failed() bool {
	return d.Err != ""
}

// ErrorDocument wraps a model-call failure message in a document so the
// failure travels as data instead of an exception.
func ErrorDocument(message string) Document {
	return Document{Improvements: []string{}, Err: message}
}
