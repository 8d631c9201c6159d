package segment

import (
	"regexp"
	"strings"
)

// Boundary grammar. Banners are visual separator lines built from runs of
// =, -, *, ~ or # characters, optionally embedding a title. Stage comments
// are the numbered or labelled forms people write when they outline a script
// by hand.
var (
	bannerOnlyRe   = regexp.MustCompile(`^[#=\-*~\s]+$`)
	bannerRunRe    = regexp.MustCompile(`[#=\-*~]{4,}`)
	bannerTitledRe = regexp.MustCompile(`^#*\s*[=\-*~]{4,}\s*([^=\-*~].*?)\s*[=\-*~]*\s*$`)

	stageRes = []*regexp.Regexp{
		regexp.MustCompile(`^#\s*\d+\s*[.):]\s*(.+)$`),
		regexp.MustCompile(`^#\s*[Ss]tep\s+\d+\s*[:.]?\s*(.+)$`),
		regexp.MustCompile(`^#\s*[Ss]tage\s*[:.]\s*(.+)$`),
		regexp.MustCompile(`^##+\s+(.+)$`),
	}
)

// parseBanner reports whether the line is a banner separator, and the title
// it embeds, if any.
func parseBanner(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if bannerOnlyRe.MatchString(trimmed) {
		if bannerRunRe.MatchString(trimmed) {
			return "", true
		}
		return "", false
	}
	if m := bannerTitledRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// parseStage reports whether the line is a stage comment, and its text.
func parseStage(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, re := range stageRes {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
