package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/Main.cs",
			rootDir:  "/home/user/project",
			expected: "src/Main.cs",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/Services/Billing/InvoiceService.cs",
			rootDir:  "/home/user/project",
			expected: "Services/Billing/InvoiceService.cs",
		},
		{
			name:     "root level file",
			absPath:  "/home/user/project/Program.cs",
			rootDir:  "/home/user/project",
			expected: "Program.cs",
		},
		{
			name:     "same directory",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			absPath:  "src/Main.cs",
			rootDir:  "/home/user/project",
			expected: "src/Main.cs", // Should return as-is if already relative
		},
		{
			name:     "path outside root - fallback to absolute",
			absPath:  "/other/location/File.cs",
			rootDir:  "/home/user/project",
			expected: "/other/location/File.cs", // Should return absolute if outside root
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/File.cs",
			rootDir:  "",
			expected: "/home/user/project/File.cs", // Fallback to absolute
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "", // Empty stays empty
		},
		{
			name:     "redundant path elements are cleaned",
			absPath:  "/home/user/project/./src/../src/Main.cs",
			rootDir:  "/home/user/project",
			expected: "src/Main.cs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)

			// Normalize separators for cross-platform testing
			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
			}
			if result != tt.expected {
				t.Errorf("ToRelative() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestToSlashRelative(t *testing.T) {
	got := ToSlashRelative("/home/user/project/Services/PatientService.cs", "/home/user/project")
	if got != "Services/PatientService.cs" {
		t.Errorf("ToSlashRelative() = %v, want Services/PatientService.cs", got)
	}
}
