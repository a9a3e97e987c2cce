package assembler

import (
	"strings"
)

// SourceLine is one non-empty line of source, split into tokens.
type SourceLine struct {
	Number int
	Text   string
	Tokens []string
}

// Tokenize strips the comment from a line and splits the remainder into
// tokens on spaces, commas and carriage returns. It never fails; a blank or
// comment-only line yields no tokens.
func Tokenize(line string) []string {
	if commentIndex := strings.IndexRune(line, ';'); commentIndex != -1 {
		line = line[:commentIndex]
	}
	line = strings.TrimSpace(line)
	return strings.FieldsFunc(line, isSeparator)
}

func isSeparator(r rune) bool {
	// Tabs count as spacing too.
	return r == ' ' || r == ',' || r == '\r' || r == '\t'
}

// SplitLines breaks source text into numbered lines and drops the ones
// without tokens. Line numbers are 1-based.
func SplitLines(src string) []SourceLine {
	raw := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	lines := make([]SourceLine, 0, len(raw))
	for i, text := range raw {
		tokens := Tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		lines = append(lines, SourceLine{Number: i + 1, Text: strings.TrimSpace(text), Tokens: tokens})
	}
	return lines
}
