package risk

import (
	"strings"

	"github.com/vk/jobforge/internal/model"
)

// Keyword families scanned out of candidate payloads and node filters. The
// scan annotates, it never escalates: the factor tags explain to whoever
// confirms the operation what the payloads are capable of.
var factorKeywords = []struct {
	tag   string
	words []string
}{
	{"destructive-commands", []string{"delete", "remove", "drop", "destroy", "kill", "terminate", "rm "}},
	{"system-level-access", []string{"sudo", "root", "admin", "kernel"}},
	{"network-operations", []string{"curl", "wget", "ssh", "scp", "ftp", "rsync"}},
}

var productionMarkers = []string{"prod", "production", "live"}

// payloadFactors scans whatever payload the operation carries. Operations
// without a candidate definition have nothing to scan.
func payloadFactors(op model.Operation) []string {
	var tags []string
	if op.Candidate != nil {
		var b strings.Builder
		for _, step := range op.Candidate.Steps {
			b.WriteString(strings.ToLower(step.Payload))
			b.WriteByte('\n')
			for _, v := range step.PluginConfig {
				b.WriteString(strings.ToLower(v))
				b.WriteByte('\n')
			}
		}
		joined := b.String()
		for _, family := range factorKeywords {
			for _, w := range family.words {
				if strings.Contains(joined, w) {
					tags = append(tags, "payload:"+family.tag)
					break
				}
			}
		}
	}

	filter := strings.ToLower(op.NodeFilter)
	if filter == "" && op.Candidate != nil {
		filter = strings.ToLower(op.Candidate.NodeFilter)
	}
	for _, marker := range productionMarkers {
		if strings.Contains(filter, marker) {
			tags = append(tags, "targets:production-nodes")
			break
		}
	}
	return tags
}
