package media

import (
	"strings"

	"github.com/segmentio/ksuid"
)

const defaultExtension = ".jpg"

// Filename builds a collision-resistant blob name of the form
// {prefix}_{token}{ext}. The token is a random ksuid so concurrent
// uploads for the same owner never collide.
func Filename(prefix, originalName string) string {
	return prefix + "_" + ksuid.New().String() + Extension(originalName)
}

// Extension returns the suffix of originalName from its last dot,
// falling back to ".jpg" when the name has no extension at all.
func Extension(originalName string) string {
	idx := strings.LastIndex(originalName, ".")
	if idx < 0 || idx == len(originalName)-1 {
		return defaultExtension
	}
	return strings.ToLower(originalName[idx:])
}
