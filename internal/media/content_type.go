package media

import "strings"

const DefaultContentType = "application/octet-stream"

// ContentType maps a stored path to a MIME type by extension. It is
// total: unknown or empty inputs resolve to the default type.
func ContentType(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return DefaultContentType
	}
}
