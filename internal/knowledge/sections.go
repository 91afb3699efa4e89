// Package knowledge loads the shop's knowledge base from a Google Doc, splits
// it into heading-delimited sections, and selects the sections most relevant
// to a customer question using keyword heuristics.
package knowledge

import "strings"

// Section is one heading-delimited fragment of the knowledge document.
// Path holds the titles of all ancestor headings including the section's own,
// in document order.
type Section struct {
	Title   string
	Content string
	Level   int
	Path    []string
}

// ParseSections splits plain document text into sections. A line whose first
// token is a run of '#' characters starts a new section at that heading
// level; everything until the next heading is the section's content.
// Sections with empty content are dropped.
func ParseSections(text string) []Section {
	var sections []Section
	current := Section{}

	type pathEntry struct {
		title string
		level int
	}
	var stack []pathEntry

	flush := func() {
		if strings.TrimSpace(current.Content) != "" {
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			current.Content += line + "\n"
			continue
		}

		flush()

		level := headingLevel(trimmed)

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, pathEntry{title: trimmed, level: level})

		path := make([]string, len(stack))
		for i, p := range stack {
			path[i] = p.title
		}

		current = Section{
			Title: trimmed,
			Level: level,
			Path:  path,
		}
	}
	flush()

	return sections
}

// headingLevel counts the '#' run in the heading's first token.
func headingLevel(line string) int {
	token := line
	if idx := strings.IndexAny(line, " \t"); idx != -1 {
		token = line[:idx]
	}
	level := 0
	for _, r := range token {
		if r != '#' {
			break
		}
		level++
	}
	if level == 0 {
		level = 1
	}
	return level
}

// cleanTitle strips heading markers and surrounding whitespace.
func cleanTitle(title string) string {
	return strings.TrimSpace(strings.Trim(title, "# "))
}
