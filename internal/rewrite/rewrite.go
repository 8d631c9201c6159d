package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/jobforge/internal/model"
)

// Option reference shapes. Form A is the file-substitution delimiter used in
// script payloads; form B is the inline delimiter used in command and plugin
// arguments. The env form is how interpreters see options at run time.
var (
	formARe = regexp.MustCompile(`@option\.([A-Za-z0-9_][A-Za-z0-9_.-]*)@`)
	formBRe = regexp.MustCompile(`\$\{option\.([A-Za-z0-9_][A-Za-z0-9_.-]*)\}`)
	envRe   = regexp.MustCompile(`\$RD_OPTION_([A-Z0-9_]+)`)

	// mentionRe finds any use of the option namespace, well-formed or not.
	mentionRe = regexp.MustCompile(`@option\.|\$\{options?\.`)
)

// Result is the outcome of rewriting one payload.
type Result struct {
	// Payload carries exactly one reference form, decided by the kind.
	Payload string

	// References lists the option names the payload mentions, in order of
	// first appearance, without duplicates.
	References []string

	// Diags reports malformed namespace mentions that were left as-is.
	Diags model.Diagnostics
}

// ForKind rewrites payload into the reference form required by kind: form A
// for scripts, form B for everything else.
func ForKind(kind model.StepKind, payload string) Result {
	if kind == model.KindScript {
		return rewrite(payload, func(name string) string {
			return "@option." + name + "@"
		})
	}
	return rewrite(payload, func(name string) string {
		return "${option." + name + "}"
	})
}

// References extracts the option names mentioned in text in any recognized
// form, without rewriting anything.
func References(text string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	collectInOrder(text, add)
	return names
}

func rewrite(payload string, render func(string) string) Result {
	var res Result
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			res.References = append(res.References, name)
		}
	}
	collectInOrder(payload, add)

	// Mask the well-formed spans, then scan what is left for namespace
	// mentions: those are the malformed tokens.
	masked := maskMatches(payload, formARe, formBRe)
	for _, loc := range mentionRe.FindAllStringIndex(masked, -1) {
		token := surroundingToken(payload, loc[0])
		res.Diags = res.Diags.Append(&model.Diagnostic{
			Severity: model.DiagWarning,
			Code:     model.CodeUnrecognizedReference,
			Summary:  fmt.Sprintf("unrecognized option reference %q", token),
			Detail:   "the token mentions the option namespace but is not a well-formed reference; it was left unchanged",
		})
	}

	out := formARe.ReplaceAllStringFunc(payload, func(m string) string {
		return render(formARe.FindStringSubmatch(m)[1])
	})
	out = formBRe.ReplaceAllStringFunc(out, func(m string) string {
		return render(formBRe.FindStringSubmatch(m)[1])
	})
	res.Payload = out
	return res
}

// collectInOrder walks all three reference forms in source order.
func collectInOrder(text string, add func(string)) {
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for _, m := range formARe.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], text[m[2]:m[3]]})
	}
	for _, m := range formBRe.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], text[m[2]:m[3]]})
	}
	for _, m := range envRe.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], strings.ToLower(text[m[2]:m[3]])})
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	for _, h := range hits {
		add(h.name)
	}
}

func maskMatches(text string, res ...*regexp.Regexp) string {
	b := []byte(text)
	for _, re := range res {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

// surroundingToken expands from pos to the whitespace-delimited token that
// contains it, for use in messages.
func surroundingToken(text string, pos int) string {
	start := pos
	for start > 0 && !isSpace(text[start-1]) {
		start--
	}
	end := pos
	for end < len(text) && !isSpace(text[end]) {
		end++
	}
	return text[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
