package ui

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	fencePattern = regexp.MustCompile("```bash|```")
	boldPattern  = regexp.MustCompile(`\*\*(.+?)\*\*`)

	// commandPattern matches lines that open with a common shell command.
	// The list is fixed on purpose; it is not meant to be a shell parser.
	// The word must end at a non-word rune, where letters and digits of any
	// script count as word runes ("catálogo" is not "cat").
	commandPattern = regexp.MustCompile(`^\s*(ls|cd|cat|grep|echo|pwd|mkdir|rm|touch|nano|vim)(?:$|[^\p{L}\p{N}_])`)
)

// FormatResponse turns a raw model answer into terminal output. Code fence
// markers are removed, **bold** spans are highlighted and every line is
// wrapped in either the command color or the text color. Each line carries
// its own reset sequence.
func FormatResponse(text string) string {
	text = StripFences(text)
	text = boldPattern.ReplaceAllString(text, ColorBold+"${1}"+Reset)

	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = colorizeLine(line)
	}
	return strings.Join(lines, "\n")
}

// StripFences removes every ```bash and bare ``` marker from text.
func StripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

// IsCommandLine reports whether line looks like a shell command or a shell
// comment. Classification only looks at the single line.
func IsCommandLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "$") {
		return true
	}
	return commandPattern.MatchString(trimmed)
}

func colorizeLine(line string) string {
	if IsCommandLine(line) {
		return ColorCommand + line + Reset
	}
	return ColorText + line + Reset
}

// isLineBreak reports whether r ends a line: \n, \r, \v, \f, the file,
// group and record separators, NEL, and the Unicode line and paragraph
// separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// splitLines splits text at every line break rune, treating \r\n as one
// break. A trailing line break does not produce an extra empty line, and
// empty input yields no lines.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexFunc(text, isLineBreak)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		_, size := utf8.DecodeRuneInString(text[i:])
		if strings.HasPrefix(text[i:], "\r\n") {
			size = 2
		}
		text = text[i+size:]
	}
	return lines
}
