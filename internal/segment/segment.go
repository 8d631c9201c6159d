package segment

import (
	"strings"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/model"
)

// DefaultMaxLines is the forced-split threshold applied when the caller does
// not configure one.
const DefaultMaxLines = 100

// Phase is one coherent slice of a script: a body of consecutive source
// lines, an optional title recovered from the boundary that opened it, and
// the capability it belongs to when the entire body matched one.
type Phase struct {
	Title string
	Body  string

	// Capability is non-nil when the phase should become a plugin step
	// instead of a script step.
	Capability *capability.Capability
}

// Segmenter splits script text into phases.
type Segmenter struct {
	caps     *capability.Registry
	maxLines int
}

// New creates a Segmenter. A non-positive maxLines selects DefaultMaxLines.
func New(caps *capability.Registry, maxLines int) *Segmenter {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Segmenter{caps: caps, maxLines: maxLines}
}

// Split breaks text into phases. Boundaries are applied in priority order:
// banners, stage comments, capability runs, then the length threshold. The
// concatenated phase bodies reproduce the input's code lines in order; only
// boundary and edge blank lines are consumed.
func (s *Segmenter) Split(text string) ([]Phase, model.Diagnostics) {
	var diags model.Diagnostics

	blocks := splitAtBoundaries(text)

	var phases []Phase
	for _, b := range blocks {
		phases = append(phases, s.extractCapabilityRuns(b)...)
	}

	var out []Phase
	for _, p := range phases {
		if p.Capability != nil {
			out = append(out, p)
			continue
		}
		split, d := s.enforceThreshold(p)
		out = append(out, split...)
		diags = diags.Extend(d)
	}

	final := out[:0]
	for _, p := range out {
		p.Body = trimBlankEdges(p.Body)
		if p.Body == "" {
			continue
		}
		final = append(final, p)
	}
	return final, diags
}

type rawBlock struct {
	title string
	lines []string
}

// splitAtBoundaries performs the primary pass: banner and stage-comment
// lines close the current block and donate their text as the next block's
// title. Boundary lines themselves are consumed.
func splitAtBoundaries(text string) []rawBlock {
	var blocks []rawBlock
	current := rawBlock{}

	flush := func(next string) {
		blocks = append(blocks, current)
		current = rawBlock{title: next}
	}

	for _, line := range strings.Split(text, "\n") {
		if title, ok := parseBanner(line); ok {
			flush(title)
			continue
		}
		if title, ok := parseStage(line); ok {
			flush(title)
			continue
		}
		current.lines = append(current.lines, line)
	}
	blocks = append(blocks, current)

	out := blocks[:0]
	for _, b := range blocks {
		if len(nonBlank(b.lines)) == 0 && b.title == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}

// extractCapabilityRuns turns a raw block into phases. A block that matches
// a capability wholesale becomes a single capability phase. Otherwise
// maximal runs of consecutive lines that individually match the same
// capability are lifted out, and the surrounding lines stay script phases.
func (s *Segmenter) extractCapabilityRuns(b rawBlock) []Phase {
	body := strings.Join(b.lines, "\n")
	if cap, ok := s.caps.Detect(body); ok {
		return []Phase{{Title: b.title, Body: body, Capability: cap}}
	}

	var phases []Phase
	title := b.title
	emit := func(lines []string, cap *capability.Capability) {
		if len(nonBlank(lines)) == 0 {
			return
		}
		phases = append(phases, Phase{
			Title:      title,
			Body:       strings.Join(lines, "\n"),
			Capability: cap,
		})
		title = ""
	}

	var run []string
	var runCap *capability.Capability
	for _, line := range b.lines {
		var lineCap *capability.Capability
		if strings.TrimSpace(line) != "" {
			if cap, ok := s.caps.Detect(line); ok {
				lineCap = cap
			}
		}
		if lineCap != runCap {
			emit(run, runCap)
			run, runCap = nil, lineCap
		}
		run = append(run, line)
	}
	emit(run, runCap)
	return phases
}

// enforceThreshold splits an oversized script phase at the nearest blank
// line preceding the limit. A phase with no blank line to split at is kept
// intact and reported.
func (s *Segmenter) enforceThreshold(p Phase) ([]Phase, model.Diagnostics) {
	var diags model.Diagnostics
	lines := strings.Split(p.Body, "\n")
	if len(lines) <= s.maxLines {
		return []Phase{p}, nil
	}

	var out []Phase
	title := p.Title
	for len(lines) > s.maxLines {
		cut := -1
		for i := s.maxLines; i > 0; i-- {
			if strings.TrimSpace(lines[i-1]) == "" {
				cut = i - 1
				break
			}
		}
		if cut <= 0 {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagWarning,
				Code:     model.CodeOversizedScriptBlock,
				Summary:  "script block exceeds the length threshold and has no natural boundary",
				Detail:   "the block was kept intact; consider adding stage comments",
			})
			break
		}
		out = append(out, Phase{Title: title, Body: strings.Join(lines[:cut], "\n")})
		title = ""
		lines = lines[cut+1:]
	}
	out = append(out, Phase{Title: title, Body: strings.Join(lines, "\n")})
	return out, diags
}

func nonBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func trimBlankEdges(body string) string {
	lines := strings.Split(body, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
