package builder

import "regexp"

// interpreterMarkers score script bodies that arrive without a directive.
// Each marker that matches counts once; a language wins only with a strictly
// higher score than every other. No winner means no interpreter, which is a
// hard error upstream: guessing a default would hand one interpreter's
// syntax to another and fail at run time on a production node instead of at
// compile time here.
var interpreterMarkers = []struct {
	tag string
	res []*regexp.Regexp
}{
	{
		tag: "bash",
		res: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*echo\s`),
			regexp.MustCompile(`\bexport\s+[A-Za-z_][A-Za-z0-9_]*=`),
			regexp.MustCompile(`\[\[`),
			regexp.MustCompile(`;\s*(then|do)\b`),
			regexp.MustCompile(`(?m)^\s*(fi|done|esac)\s*$`),
			regexp.MustCompile(`\bset\s+-[eux]`),
			regexp.MustCompile(`\blocal\s+[A-Za-z_]`),
		},
	},
	{
		tag: "python3",
		res: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*import\s+[a-zA-Z_]`),
			regexp.MustCompile(`(?m)^\s*from\s+[a-zA-Z_.]+\s+import\b`),
			regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\(`),
			regexp.MustCompile(`\bprint\s*\(`),
			regexp.MustCompile(`(?m)^\s*if\s+__name__\s*==`),
		},
	},
	{
		tag: "ruby",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\bputs\s`),
			regexp.MustCompile(`(?m)^\s*require\s+['"]`),
			regexp.MustCompile(`\bdo\s*\|\w+\|`),
			regexp.MustCompile(`(?m)^\s*end\s*$`),
		},
	},
	{
		tag: "node",
		res: []*regexp.Regexp{
			regexp.MustCompile(`\bconsole\.(log|error)\s*\(`),
			regexp.MustCompile(`\brequire\s*\(`),
			regexp.MustCompile(`\b(const|let)\s+\w+\s*=`),
			regexp.MustCompile(`=>`),
		},
	},
}

// inferInterpreter scores the body against every known language and returns
// the single winner, if there is one.
func inferInterpreter(body string) (string, bool) {
	best, bestScore, contested := "", 0, false
	for _, lang := range interpreterMarkers {
		score := 0
		for _, re := range lang.res {
			if re.MatchString(body) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, contested = lang.tag, score, false
		case score == bestScore && score > 0:
			contested = true
		}
	}
	if bestScore == 0 || contested {
		return "", false
	}
	return best, true
}
