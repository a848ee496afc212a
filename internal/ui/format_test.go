package ui

import (
	"strings"
	"testing"
)

func TestColorSequences(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"bold", ColorBold, "\033[38;2;235;203;139m"},
		{"command", ColorCommand, "\033[38;2;163;190;140m"},
		{"text", ColorText, "\033[38;2;129;161;193m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestIsCommandLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ls -la", true},
		{"   cd /etc", true},
		{"$ anything at all goes here", true},
		{"  $ sudo pacman -Syu", true},
		{"# comment about the system", true},
		{"grep -r foo .", true},
		{"vim ~/.bashrc", true},
		{"mkdir", true},
		{"lsblk", false},
		{"catalog of files", false},
		{"catálogo de paquetes", false},
		{"lsé", false},
		{"cd_dir", false},
		{"cd2 home", false},
		{"rm -rf build/", true},
		{"echo", true},
		{"cat: file not found", true},
		{"ls, then what", true},
		{"sudo pacman -Syu", false},
		{"Use ls to list files.", false},
		{"", false},
		{"    \t  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsCommandLine(tt.line); got != tt.want {
				t.Errorf("IsCommandLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFormatResponse_PlainTextPreservesLines(t *testing.T) {
	input := "First explain things.\nls -la\n$ echo hi\n   \nDone."
	got := FormatResponse(input)

	lines := strings.Split(got, "\n")
	inputLines := strings.Split(input, "\n")
	if len(lines) != len(inputLines) {
		t.Fatalf("got %d lines, want %d", len(lines), len(inputLines))
	}

	for i, line := range lines {
		raw := inputLines[i]
		wantCommand := ColorCommand + raw + Reset
		wantText := ColorText + raw + Reset
		if line != wantCommand && line != wantText {
			t.Errorf("line %d = %q is not wrapped in a single color span", i, line)
		}
		if IsCommandLine(raw) && line != wantCommand {
			t.Errorf("line %d = %q, want command color", i, line)
		}
		if !IsCommandLine(raw) && line != wantText {
			t.Errorf("line %d = %q, want text color", i, line)
		}
	}
}

func TestFormatResponse_WhitespaceLineIsText(t *testing.T) {
	got := FormatResponse("  \t ")
	want := ColorText + "  \t " + Reset
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatResponse_Bold(t *testing.T) {
	got := FormatResponse("Run **pacman** then **yay** now")
	want := ColorText + "Run " + ColorBold + "pacman" + Reset + " then " +
		ColorBold + "yay" + Reset + " now" + Reset
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatResponse_BoldDoesNotSpanLines(t *testing.T) {
	got := FormatResponse("**open\nclose**")
	if strings.Contains(got, ColorBold) {
		t.Errorf("bold span crossed a line break: %q", got)
	}
}

func TestFormatResponse_EndToEnd(t *testing.T) {
	answer := "Use **ls** to list files.\n```bash\nls -la\n```"
	got := FormatResponse(answer)

	if strings.Contains(got, "```") {
		t.Fatalf("fence markers left in output: %q", got)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), got)
	}

	wantFirst := ColorText + "Use " + ColorBold + "ls" + Reset + " to list files." + Reset
	if lines[0] != wantFirst {
		t.Errorf("line 0 = %q, want %q", lines[0], wantFirst)
	}
	if lines[1] != ColorText+Reset {
		t.Errorf("line 1 = %q, want empty text span", lines[1])
	}
	if lines[2] != ColorCommand+"ls -la"+Reset {
		t.Errorf("line 2 = %q, want command span around %q", lines[2], "ls -la")
	}
}

func TestFormatResponse_Empty(t *testing.T) {
	if got := FormatResponse(""); got != "" {
		t.Errorf("got %q, want empty output", got)
	}
}

func TestStripFences_Idempotent(t *testing.T) {
	inputs := []string{
		"```bash\nls\n```",
		"``````bash",
		"`````",
		"no fences here",
		"```python\nprint()\n```",
	}
	for _, in := range inputs {
		once := StripFences(in)
		twice := StripFences(once)
		if once != twice {
			t.Errorf("StripFences(%q): once %q, twice %q", in, once, twice)
		}
		if strings.Contains(once, "```") {
			t.Errorf("StripFences(%q) = %q still has a fence", in, once)
		}
	}
}

func TestStripFences_KeepsLanguageTagOtherThanBash(t *testing.T) {
	if got := StripFences("```python"); got != "python" {
		t.Errorf("got %q, want %q", got, "python")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"trailing newline", "a\n", []string{"a"}},
		{"blank middle", "a\n\nb", []string{"a", "", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"only newline", "\n", []string{""}},
		{"vertical tab and form feed", "a\vb\fc", []string{"a", "b", "c"}},
		{"separators", "a\x1cb\x1dc\x1ed", []string{"a", "b", "c", "d"}},
		{"next line", "a\u0085b", []string{"a", "b"}},
		{"unicode line and paragraph", "a\u2028b\u2029c\u2029", []string{"a", "b", "c"}},
		{"cr then lf pair counted once", "a\r\n\nb", []string{"a", "", "b"}},
		{"lone continuation byte is not a break", "a\x85b", []string{"a\x85b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
