package captions

import (
	"path/filepath"
	"strings"
)

// OutputPath swaps the final extension of source for ext. Only the last path
// element is inspected, and dots leading a file name never start an
// extension, so "/a/.hidden" and "/a.b/file" keep their whole name.
func OutputPath(source, ext string) string {
	return stripExt(source) + ext
}

func stripExt(path string) string {
	name := filepath.Base(path)
	if path == "" || strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return path
	}
	cut := len(trimmed) - idx
	return path[:len(path)-cut]
}
