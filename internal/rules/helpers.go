package rules

import "time"

// inTable reports whether value appears in the reference table, compared
// exactly.
func inTable(value string, table []string) bool {
	for _, entry := range table {
		if value == entry {
			return true
		}
	}
	return false
}

// formatCreated renders a creation timestamp for display, returning "N/A"
// for the zero value (providers that do not expose one).
func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02 15:04:05")
}
