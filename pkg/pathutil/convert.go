// Package pathutil converts between absolute and relative paths.
//
// The analyzer uses absolute paths internally for consistency; user-facing
// output (reports, warnings, watch events) uses root-relative paths for
// readability and portability. This package is the conversion layer between
// the two representations.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/Main.cs", "/home/user/project") → "src/Main.cs"
//   - ToRelative("/other/location/File.cs", "/home/user/project") → "/other/location/File.cs" (outside root)
//   - ToRelative("src/Main.cs", "/home/user/project") → "src/Main.cs" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// A ".." prefix means the file is outside the root; the absolute path is
	// clearer in that case.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToSlashRelative is ToRelative with the result normalized to forward
// slashes, matching how discovery records file paths.
func ToSlashRelative(absPath, rootDir string) string {
	return filepath.ToSlash(ToRelative(absPath, rootDir))
}
