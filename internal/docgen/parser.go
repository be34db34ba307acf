package docgen

import "strings"

const (
	sectionOverview     = "overview"
	sectionFunctions    = "functions"
	sectionParameters   = "parameters"
	sectionExamples     = "examples"
	sectionImprovements = "improvements"
)

// sectionHeaders are the literal header phrases the model is prompted to
// emit, checked in order with a case-sensitive prefix match. Any phrasing
// drift from the model silently accumulates into whichever section was last
// active; that graceful degradation is the contract, not a bug.
var sectionHeaders = []struct {
	prefix  string
	section string
}{
	{"1. Brief Overview:", sectionOverview},
	{"2. Detailed Function Documentation:", sectionFunctions},
	{"3. Parameters and Return Values:", sectionParameters},
	{"4. Usage Examples:", sectionExamples},
	{"5. Any potential improvements", sectionImprovements},
	{"Improvements:", sectionImprovements},
}

const bulletMarker = "-"

// ParseDocumentation converts the raw text of a model reply into a Document
// using a single line-oriented scan. The scan starts in the overview section,
// switches sections when it recognizes a header line, collects bullet points
// (with space-joined continuation lines) inside the improvements section, and
// appends everything else to the active section's accumulator. Malformed
// input never fails; unattributed lines land in the active section.
func ParseDocumentation(raw string) Document {
	bodies := map[string][]string{}
	current := sectionOverview
	improvements := []string{}
	pending := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, ok := matchSectionHeader(line); ok {
			current = section
			continue
		}

		if current == sectionImprovements {
			if strings.HasPrefix(line, bulletMarker) {
				if pending != "" {
					improvements = append(improvements, strings.TrimSpace(pending))
				}
				pending = strings.TrimSpace(strings.TrimPrefix(line, bulletMarker))
				continue
			}
			// Prose under the improvements header before the first bullet
			// has no pending point to attach to and is dropped.
			if pending != "" {
				pending += " " + line
			}
			continue
		}

		bodies[current] = append(bodies[current], line)
	}

	if pending != "" {
		improvements = append(improvements, strings.TrimSpace(pending))
	}

	return Document{
		Overview:     strings.Join(bodies[sectionOverview], "\n"),
		Functions:    strings.Join(bodies[sectionFunctions], "\n"),
		Parameters:   strings.Join(bodies[sectionParameters], "\n"),
		Examples:     strings.Join(bodies[sectionExamples], "\n"),
		Improvements: improvements,
	}
}

func matchSectionHeader(line string) (string, bool) {
	for _, header := range sectionHeaders {
		if strings.HasPrefix(line, header.prefix) {
			return header.section, true
		}
	}
	return "", false
}

// TrimDocstring returns the raw docstring reply with surrounding whitespace
// removed. Docstring replies are not sectioned and need no further parsing.
func TrimDocstring(raw string) string {
	return strings.TrimSpace(raw)
}
