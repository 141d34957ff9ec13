package utils

import "strings"

// ParseBool interprets the boolean-ish spellings accepted in connection strings and
// environment variables. The second return value is false when s is not recognised.
//
// Examples:
//   - "true", "1", "yes", "y", "on" -> (true, true)
//   - "FALSE", "0", "no", "n", "off" -> (false, true)
//   - "maybe", "" -> (false, false)
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// SplitList splits a comma separated list, trimming entries and dropping empty ones.
//
// Examples:
//   - "dbo, web,,rbac " -> ["dbo", "web", "rbac"]
//   - "  " -> []
func SplitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
