package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlens/archlens/internal/config"
	archerrors "github.com/archlens/archlens/internal/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Discovery.DetectBuildArtifacts = false
	return cfg
}

func TestDiscoverOrderedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Controllers/PatientController.cs", "class PatientController {}")
	writeFile(t, root, "Services/PatientService.cs", "class PatientService {}")
	writeFile(t, root, "bin/Debug/Generated.cs", "class Generated {}")
	writeFile(t, root, "obj/Release/Temp.cs", "class Temp {}")
	writeFile(t, root, "README.md", "# readme")
	writeFile(t, root, "Clinic.Tests/PatientServiceTests.cs", "class PatientServiceTests {}")

	files, err := NewScanner(testConfig(root)).Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Controllers/PatientController.cs",
		"Services/PatientService.cs",
	}, files)
}

func TestDiscoverMissingRootFails(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := NewScanner(cfg).Discover(context.Background())
	require.Error(t, err)

	var fsErr *archerrors.FileSystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, archerrors.ErrorTypePathNotFound, fsErr.Type)
}

func TestDiscoverEmptyTreeIsValid(t *testing.T) {
	files, err := NewScanner(testConfig(t.TempDir())).Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverRespectsMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Small.cs", "class Small {}")

	big := make([]byte, 2048)
	for i := range big {
		big[i] = 'x'
	}
	writeFile(t, root, "Big.cs", string(big))

	cfg := testConfig(root)
	cfg.Discovery.MaxFileSize = 1024

	files, err := NewScanner(cfg).Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Small.cs"}, files)
}

func TestDiscoverHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A.cs", "class A {}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(testConfig(root)).Discover(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscoverBuildArtifactExclusion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Clinic.csproj", "<Project Sdk=\"Microsoft.NET.Sdk\"></Project>")
	writeFile(t, root, "Program.cs", "class Program {}")
	writeFile(t, root, "bin/Debug/net8.0/Copy.cs", "class Copy {}")

	cfg := testConfig(root)
	cfg.Discovery.ExcludeGlobs = nil // rely solely on manifest detection
	cfg.Discovery.DetectBuildArtifacts = true

	files, err := NewScanner(cfg).Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Program.cs"}, files)
}
