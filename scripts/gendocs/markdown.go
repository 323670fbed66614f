package main

import (
	"fmt"
	"strings"
)

// markdownWriter accumulates a markdown document.
type markdownWriter struct {
	sb strings.Builder
}

func newMarkdownWriter() *markdownWriter {
	return &markdownWriter{}
}

// Frontmatter writes a YAML frontmatter block with a title and description.
func (w *markdownWriter) Frontmatter(title, description string) {
	fmt.Fprintf(&w.sb, "---\ntitle: %q\ndescription: %q\n---\n\n", title, description)
}

// GeneratedMarker notes that the file must not be edited by hand.
func (w *markdownWriter) GeneratedMarker() {
	w.sb.WriteString("<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->\n\n")
}

func (w *markdownWriter) Header(level int, text string) {
	fmt.Fprintf(&w.sb, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (w *markdownWriter) Paragraph(text string) {
	w.sb.WriteString(strings.TrimSpace(text))
	w.sb.WriteString("\n\n")
}

func (w *markdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.sb, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

func (w *markdownWriter) BulletList(items []string) {
	for _, item := range items {
		fmt.Fprintf(&w.sb, "- %s\n", item)
	}
	w.sb.WriteString("\n")
}

// Table writes a pipe table. Pipes inside cells are escaped.
func (w *markdownWriter) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.tableRow(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.tableRow(sep)
	for _, row := range rows {
		w.tableRow(row)
	}
	w.sb.WriteString("\n")
}

func (w *markdownWriter) tableRow(cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(&w.sb, "| %s |\n", strings.Join(escaped, " | "))
}

func (w *markdownWriter) Bytes() []byte {
	return []byte(w.sb.String())
}

func inlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription flattens a description onto one line.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSuffix(s, ".")
}
