package validation

import "strings"

// JoinPath joins path segments with dots, skipping blanks.
func JoinPath(segments ...string) string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ".")
}

// PathFromPointer converts a JSON pointer ("#/properties/address/properties/street"
// or "/address/street") into the dotted path used for error keys
// ("address.street"). Schema keywords that do not name data locations are
// dropped.
func PathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}
	return PathFromSegments(strings.Split(trimmed, "/"))
}

// PathFromSegments is PathFromPointer for a pointer already split into
// segments.
func PathFromSegments(parts []string) string {
	out := make([]string, 0, len(parts))
	for idx := 0; idx < len(parts); idx++ {
		segment := unescapePointer(parts[idx])
		switch segment {
		case "properties":
			if idx+1 < len(parts) {
				out = append(out, unescapePointer(parts[idx+1]))
				idx++
			}
		case "oneOf", "anyOf", "allOf":
			if idx+1 < len(parts) && isNumeric(parts[idx+1]) {
				idx++
			}
		case "$defs", "definitions":
			if idx+1 < len(parts) {
				idx++
			}
		case "":
		default:
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}

func unescapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
