package timelapse

import (
	"path/filepath"
	"slices"
	"strings"
)

// SupportedFormats lists the container extensions accepted as sources.
var SupportedFormats = []string{"mp4", "webm", "mpg", "avi", "mov", "m4v", "flv", "mkv", "wmv", "3gp"}

// IsSupportedFormat reports whether the last extension of path is one of
// SupportedFormats, ignoring case.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ext != "" && slices.Contains(SupportedFormats, ext)
}

// FilterSupported splits paths into supported and skipped, preserving order.
func FilterSupported(paths []string) (supported, skipped []string) {
	for _, p := range paths {
		if IsSupportedFormat(p) {
			supported = append(supported, p)
		} else {
			skipped = append(skipped, p)
		}
	}
	return supported, skipped
}
