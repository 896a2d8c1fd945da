package dom

import "strings"

func splitClasses(className string) []string {
	return strings.Fields(className)
}

func joinClasses(classes []string) string {
	return strings.Join(classes, " ")
}

// ClassList builds a class attribute from parts, skipping empty ones.
func ClassList(parts ...string) string {
	var kept []string
	for _, p := range parts {
		kept = append(kept, splitClasses(p)...)
	}
	return joinClasses(kept)
}
