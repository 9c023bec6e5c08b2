// Build artifact detection from project manifests. Analyzed source trees
// often carry compiled output next to the code (bin/, obj/, dist/,
// target/); indexing those would double-count classes, so discovery
// pre-seeds exclusions from whatever manifests are present at the root.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds build output directories for the languages
// commonly mixed into an application repository.
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector.
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories scans for build configuration files and returns
// glob patterns to exclude (e.g. "**/obj/**", "**/target/**").
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string

	patterns = append(patterns, bad.detectDotNetOutputs()...)
	patterns = append(patterns, bad.detectJavaScriptOutputs()...)
	patterns = append(patterns, bad.detectRustOutputs()...)
	patterns = append(patterns, bad.detectPythonOutputs()...)

	return dedupePatterns(patterns)
}

// detectDotNetOutputs finds MSBuild output directories. bin/ and obj/ are
// implied by any project file; an explicit <OutputPath> is honored too.
func (bad *BuildArtifactDetector) detectDotNetOutputs() []string {
	var patterns []string

	entries, err := os.ReadDir(bad.projectRoot)
	if err != nil {
		return nil
	}

	hasProject := false
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".csproj") || strings.HasSuffix(name, ".sln") {
			hasProject = true
		}
	}
	if !hasProject {
		// Project files may also sit one level down (solution layout).
		matches, _ := filepath.Glob(filepath.Join(bad.projectRoot, "*", "*.csproj"))
		hasProject = len(matches) > 0
	}
	if !hasProject {
		return nil
	}

	patterns = append(patterns, "**/bin/**", "**/obj/**")

	matches, _ := filepath.Glob(filepath.Join(bad.projectRoot, "*.csproj"))
	more, _ := filepath.Glob(filepath.Join(bad.projectRoot, "*", "*.csproj"))
	matches = append(matches, more...)
	for _, proj := range matches {
		if data, err := os.ReadFile(proj); err == nil {
			if out := extractTagValue(string(data), "OutputPath"); out != "" {
				out = strings.Trim(filepath.ToSlash(out), "/\\")
				patterns = append(patterns, "**/"+out+"/**")
			}
		}
	}

	return patterns
}

// extractTagValue pulls the text content of the first <tag>...</tag> pair.
func extractTagValue(content, tag string) string {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"
	start := strings.Index(content, open)
	if start == -1 {
		return ""
	}
	start += len(open)
	end := strings.Index(content[start:], closing)
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(content[start : start+end])
}

// detectJavaScriptOutputs finds JS/TS build outputs from tsconfig.json and
// package.json.
func (bad *BuildArtifactDetector) detectJavaScriptOutputs() []string {
	var patterns []string

	tsconfigJSON := filepath.Join(bad.projectRoot, "tsconfig.json")
	if data, err := os.ReadFile(tsconfigJSON); err == nil {
		var tsconfig map[string]interface{}
		if json.Unmarshal(data, &tsconfig) == nil {
			if compilerOptions, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
				if outDir, ok := compilerOptions["outDir"].(string); ok {
					patterns = append(patterns, "**/"+strings.Trim(outDir, "./")+"/**")
				}
			}
		}
	}

	packageJSON := filepath.Join(bad.projectRoot, "package.json")
	if _, err := os.Stat(packageJSON); err == nil {
		patterns = append(patterns, "**/node_modules/**", "**/dist/**")
	}

	return patterns
}

// detectRustOutputs finds Rust build outputs from Cargo.toml.
func (bad *BuildArtifactDetector) detectRustOutputs() []string {
	cargoTOML := filepath.Join(bad.projectRoot, "Cargo.toml")
	if data, err := os.ReadFile(cargoTOML); err == nil {
		var cargo map[string]interface{}
		if toml.Unmarshal(data, &cargo) == nil {
			return []string{"**/target/**"}
		}
	}
	return nil
}

// detectPythonOutputs finds Python build outputs from pyproject.toml.
func (bad *BuildArtifactDetector) detectPythonOutputs() []string {
	pyprojectTOML := filepath.Join(bad.projectRoot, "pyproject.toml")
	if data, err := os.ReadFile(pyprojectTOML); err == nil {
		var pyproject map[string]interface{}
		if toml.Unmarshal(data, &pyproject) == nil {
			return []string{"**/__pycache__/**", "**/build/**", "**/*.egg-info/**"}
		}
	}
	return nil
}

func dedupePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := patterns[:0]
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
