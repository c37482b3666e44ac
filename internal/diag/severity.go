package diag

import "strings"

// Severity orders diagnostics; only SevError fails a template.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{"INFO", "WARNING", "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in short output ("error").
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}
