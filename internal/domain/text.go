package domain

import "strings"

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// unitLabel formats a unit number for display.
func unitLabel(n string) string {
	if n = strings.TrimSpace(n); n == "" {
		return ""
	}
	return "Unit " + n
}

// firstNonEmpty returns the first non-blank value, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
