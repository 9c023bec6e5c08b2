package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDotNetOutputs(t *testing.T) {
	dir := t.TempDir()
	csproj := `<Project Sdk="Microsoft.NET.Sdk.Web">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <OutputPath>artifacts\web</OutputPath>
  </PropertyGroup>
</Project>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Clinic.Web.csproj"), []byte(csproj), 0644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	assert.Contains(t, patterns, "**/bin/**")
	assert.Contains(t, patterns, "**/obj/**")
	assert.Contains(t, patterns, "**/artifacts/web/**")
}

func TestDetectRustAndPythonOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\nname = \"tool\"\nversion = \"0.1.0\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[project]\nname = \"scripts\"\n"), 0644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	assert.Contains(t, patterns, "**/target/**")
	assert.Contains(t, patterns, "**/__pycache__/**")
}

func TestDetectJavaScriptOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(`{"compilerOptions":{"outDir":"./out"}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"dashboard"}`), 0644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	assert.Contains(t, patterns, "**/out/**")
	assert.Contains(t, patterns, "**/node_modules/**")
}

func TestDetectNothingInEmptyDir(t *testing.T) {
	patterns := NewBuildArtifactDetector(t.TempDir()).DetectOutputDirectories()
	assert.Empty(t, patterns)
}
