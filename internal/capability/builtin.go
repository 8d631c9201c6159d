package capability

import (
	"fmt"
	"strings"

	"github.com/vk/jobforge/internal/model"
)

// Provider ids of the plugins the default catalog emits.
const (
	ProviderSQLRunner = "org.rundeck.sqlrunner.SQLRunnerNodeStepPlugin"
	ProviderAnsible   = "com.batix.rundeck.plugins.AnsibleNodeStepPlugin"
	ProviderHTTP      = "edu.ohio.ais.rundeck.HttpWorkflowStepPlugin"
)

// Default returns a registry populated with the built-in capabilities.
func Default() *Registry {
	r := New()
	r.Register(JobReference())
	r.Register(DataQuery())
	r.Register(OutboundCall())
	r.Register(ConfigManagement())
	return r
}

// JobReference recognizes explicit invoke-another-job intents of the form
// "job: group/name" or "job: <id>". The encoder expresses these natively, so
// no provider id is involved.
func JobReference() *Capability {
	return &Capability{
		Type:     model.PluginJobReference,
		Provider: "",
		NodeStep: false,
		Priority: 10,
		Match: func(text string) bool {
			return ReferenceTarget(text) != ""
		},
		Config: func(payload string) map[string]string {
			return map[string]string{"reference": ReferenceTarget(payload)}
		},
		Describe: func(payload string) string {
			return fmt.Sprintf("Invoke job %s", ReferenceTarget(payload))
		},
	}
}

// DataQuery recognizes fragments shaped like a structured query statement.
func DataQuery() *Capability {
	return &Capability{
		Type:     model.PluginDataQuery,
		Provider: ProviderSQLRunner,
		NodeStep: true,
		Priority: 20,
		Match: func(text string) bool {
			return sqlVerbs[strings.ToLower(firstCodeWord(text))]
		},
		Config: func(payload string) map[string]string {
			return map[string]string{"scriptBody": payload}
		},
		Describe: func(payload string) string {
			return fmt.Sprintf("Execute %s statement", strings.ToUpper(firstCodeWord(payload)))
		},
	}
}

// OutboundCall recognizes fragments that perform an HTTP request: curl or
// wget invocations, or a bare URL.
func OutboundCall() *Capability {
	return &Capability{
		Type:     model.PluginOutboundCall,
		Provider: ProviderHTTP,
		NodeStep: false,
		Priority: 30,
		Match: func(text string) bool {
			lines := codeLines(text)
			if len(lines) == 0 {
				return false
			}
			for _, line := range lines {
				if !isOutboundLine(line) {
					return false
				}
			}
			return true
		},
		Config: func(payload string) map[string]string {
			url, method := parseOutboundCall(payload)
			return map[string]string{
				"remoteUrl":     url,
				"method":        method,
				"printResponse": "true",
			}
		},
		Describe: func(payload string) string {
			url, method := parseOutboundCall(payload)
			if url == "" {
				return "Call external endpoint"
			}
			return fmt.Sprintf("%s %s", method, url)
		},
	}
}

// ConfigManagement recognizes package and service lifecycle commands.
func ConfigManagement() *Capability {
	return &Capability{
		Type:     model.PluginConfigManagement,
		Provider: ProviderAnsible,
		NodeStep: true,
		Priority: 40,
		Match: func(text string) bool {
			lines := codeLines(text)
			if len(lines) == 0 {
				return false
			}
			for _, line := range lines {
				if !isConfigLine(line) {
					return false
				}
			}
			return true
		},
		Config: func(payload string) map[string]string {
			return map[string]string{
				"module": "shell",
				"args":   strings.Join(codeLines(payload), " && "),
			}
		},
		Describe: func(payload string) string {
			lines := codeLines(payload)
			if len(lines) == 0 {
				return "Apply configuration state"
			}
			return fmt.Sprintf("Apply configuration: %s", truncate(lines[0], 60))
		},
	}
}

var sqlVerbs = map[string]bool{
	"select":   true,
	"insert":   true,
	"update":   true,
	"delete":   true,
	"create":   true,
	"alter":    true,
	"drop":     true,
	"truncate": true,
	"grant":    true,
	"revoke":   true,
	"with":     true,
	"explain":  true,
}

var packageManagers = map[string]bool{
	"apt":     true,
	"apt-get": true,
	"yum":     true,
	"dnf":     true,
	"zypper":  true,
	"apk":     true,
	"pacman":  true,
	"brew":    true,
	"snap":    true,
}

var packageVerbs = map[string]bool{
	"install":    true,
	"remove":     true,
	"purge":      true,
	"upgrade":    true,
	"update":     true,
	"autoremove": true,
	"erase":      true,
	"reinstall":  true,
}

var serviceManagers = map[string]bool{
	"systemctl": true,
	"service":   true,
}

// ReferenceTarget extracts the target of a "job:" fragment, or "" when the
// text is not a job reference.
func ReferenceTarget(text string) string {
	lines := codeLines(text)
	if len(lines) != 1 {
		return ""
	}
	rest, ok := strings.CutPrefix(lines[0], "job:")
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}

// codeLines returns the trimmed non-blank, non-comment lines of text.
func codeLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "--") {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// firstCodeWord returns the first whitespace-delimited token of the first
// code line of text.
func firstCodeWord(text string) string {
	lines := codeLines(text)
	if len(lines) == 0 {
		return ""
	}
	fields := strings.Fields(lines[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isOutboundLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "curl", "wget":
		return true
	}
	return len(fields) == 1 && isURL(fields[0])
}

func isConfigLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "sudo" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return false
	}
	if serviceManagers[fields[0]] {
		return len(fields) > 1
	}
	if packageManagers[fields[0]] {
		for _, f := range fields[1:] {
			if packageVerbs[f] {
				return true
			}
		}
	}
	return false
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// parseOutboundCall extracts the request URL and method from a curl or wget
// style line, defaulting the method from the flags that imply one.
func parseOutboundCall(payload string) (url, method string) {
	method = "GET"
	lines := codeLines(payload)
	if len(lines) == 0 {
		return "", method
	}
	fields := strings.Fields(strings.Join(lines, " "))
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch {
		case f == "-X" || f == "--request":
			if i+1 < len(fields) {
				method = strings.ToUpper(fields[i+1])
				i++
			}
		case f == "-d" || f == "--data" || f == "--data-binary" || f == "--data-raw":
			if method == "GET" {
				method = "POST"
			}
			if i+1 < len(fields) {
				i++
			}
		case isURL(f) && url == "":
			url = f
		}
	}
	return url, method
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
