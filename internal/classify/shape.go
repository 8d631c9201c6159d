package classify

import "strings"

// shellMetachars are the characters that only mean something when a shell is
// interpreting the line: pipes, logic operators, separators, redirection,
// and command substitution.
var shellMetachars = []string{"|", "&", ";", "<", ">", "`", "$("}

// HasInterpreterDirective reports whether the fragment opens with a "#!"
// line. Leading blank lines are tolerated because fragments are pasted text,
// not files.
func HasInterpreterDirective(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "#!")
}

// InterpreterDirective returns the interpreter named by the fragment's "#!"
// line, normalized to the bare program name ("bash", "python3"). The "env"
// indirection form resolves to its argument. Returns "" when the fragment
// has no directive.
func InterpreterDirective(text string) string {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#!") {
		return ""
	}
	line := trimmed[2:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	prog := fields[0]
	if i := strings.LastIndexByte(prog, '/'); i >= 0 {
		prog = prog[i+1:]
	}
	if prog == "env" && len(fields) > 1 {
		return fields[1]
	}
	return prog
}

// StripInterpreterDirective returns the fragment without its leading "#!"
// line. Text without a directive is returned unchanged.
func StripInterpreterDirective(text string) string {
	if !HasInterpreterDirective(text) {
		return text
	}
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		return trimmed[i+1:]
	}
	return ""
}

// HasShellStructure reports whether the text needs a shell to execute:
// either it spans multiple lines or it uses shell metacharacters.
func HasShellStructure(text string) bool {
	if len(nonBlankLines(text)) > 1 {
		return true
	}
	return containsMetachar(text)
}

// IsSimpleCommandLine reports whether the text is exactly one non-blank line
// with no shell metacharacters: the only shape a direct command invocation
// can execute faithfully.
func IsSimpleCommandLine(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) != 1 {
		return false
	}
	return !containsMetachar(lines[0])
}

func containsMetachar(text string) bool {
	for _, m := range shellMetachars {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
