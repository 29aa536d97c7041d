package logging

import "regexp"

const redactedPlaceholder = "[REDACTED]"

// redactor scrubs credentials from log output. Evidence lookups and the
// audit store DSN can carry provider keys that must never reach the logs.
type redactor struct {
	patterns []*regexp.Regexp
}

var redactPatterns = []string{
	// AWS access key IDs
	`AKIA[0-9A-Z]{16}`,
	// Bearer tokens in forwarded headers
	`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
	// Credentials embedded in source URLs (?api_key=..., &token=...)
	`(?i)[?&](?:api_?key|access_?token|token|key)=[^&\s"']+`,
	// key/value style secrets in config dumps
	`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	`(?i)secret["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	`(?i)token["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	`(?i)password["'\s:=]+[^\s"']{8,}`,
}

func newRedactor() *redactor {
	compiled := make([]*regexp.Regexp, 0, len(redactPatterns))
	for _, p := range redactPatterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return &redactor{patterns: compiled}
}

func (r *redactor) redact(input string) string {
	out := input
	for _, p := range r.patterns {
		out = p.ReplaceAllString(out, redactedPlaceholder)
	}
	return out
}
