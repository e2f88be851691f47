package resolver

import (
	"path/filepath"
)

// DocumentBase returns the absolute directory that contains the document.
func DocumentBase(documentPath string) string {
	return filepath.Dir(Absolute(documentPath))
}

// Absolute cleans path into an absolute form, resolving symbolic links when possible.
func Absolute(path string) string {
	absolute, err := filepath.Abs(path)
	if err != nil {
		absolute = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(absolute); err == nil {
		return resolved
	}
	return absolute
}

// Location is the absolute form of path with symbolic links resolved in its
// parent directories only. The last element is kept as named, so a folder that
// is itself a link is addressed by its own name.
func Location(path string) string {
	absolute, err := filepath.Abs(path)
	if err != nil {
		absolute = filepath.Clean(path)
	}
	name := filepath.Base(absolute)
	directory := filepath.Dir(absolute)
	if directory == absolute {
		return absolute
	}
	return filepath.Join(Absolute(directory), name)
}

// Relative expresses targetDir relative to baseDir with forward slashes.
// When no relative form exists the absolute target is returned instead.
func Relative(baseDir string, targetDir string) string {
	base := Absolute(baseDir)
	target := Location(targetDir)

	relative, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}

	return filepath.ToSlash(relative)
}
