package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlens/archlens/internal/types"
	"github.com/archlens/archlens/internal/version"
)

func callRequest(t *testing.T, args interface{}) *mcp.CallToolRequest {
	t.Helper()
	data, err := json.Marshal(args)
	require.NoError(t, err)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: data}}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult, out interface{}) {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestHandleVersion(t *testing.T) {
	server := NewServer(t.TempDir(), nil)

	result, err := server.handleVersion(context.Background(), callRequest(t, map[string]string{}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var payload map[string]string
	resultJSON(t, result, &payload)
	assert.Equal(t, version.Version, payload["version"])
	assert.NotEmpty(t, payload["buildId"])
}

func TestHandleAnalysisConfig(t *testing.T) {
	root := t.TempDir()
	server := NewServer(root, nil)

	result, err := server.handleAnalysisConfig(context.Background(), callRequest(t, ConfigParams{}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var payload struct {
		Fingerprint string `json:"fingerprint"`
		ConfigFile  string `json:"configFile"`
	}
	resultJSON(t, result, &payload)
	assert.NotEmpty(t, payload.Fingerprint)
	assert.Equal(t, ".archlens.kdl", payload.ConfigFile)
}

func TestHandleAnalyzeArchitecture(t *testing.T) {
	root := t.TempDir()
	source := `
namespace Clinic
{
    public class PatientController
    {
        public void Index() { var model = patients.List(); }
    }
    public class PatientService
    {
        public void Register() { repository.Add(patient); }
    }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "Clinic.cs"), []byte(source), 0o644))

	server := NewServer(root, nil)

	result, err := server.handleAnalyzeArchitecture(context.Background(), callRequest(t, AnalyzeParams{}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var report types.AnalysisReport
	resultJSON(t, result, &report)
	assert.Equal(t, 2, report.Metrics.TotalClasses)
	assert.NotEmpty(t, report.InputDigest)
}

func TestHandleAnalyzeArchitectureOverrides(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "EpicService.cs"),
		[]byte(`public class EpicService { public void Notify() { client.Send(message); } }`), 0o644))

	server := NewServer(root, nil)

	result, err := server.handleAnalyzeArchitecture(context.Background(), callRequest(t, AnalyzeParams{
		IntegrationKeywords: []string{"Epic"},
	}))
	require.NoError(t, err)

	var report types.AnalysisReport
	resultJSON(t, result, &report)
	require.Len(t, report.Layers, 1)
	assert.Equal(t, types.LayerIntegration, report.Layers[0].Layer)
}

func TestHandleAnalyzeArchitectureMissingRoot(t *testing.T) {
	server := NewServer(filepath.Join(t.TempDir(), "nope"), nil)

	result, err := server.handleAnalyzeArchitecture(context.Background(), callRequest(t, AnalyzeParams{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleAnalyzeArchitectureBadParams(t *testing.T) {
	server := NewServer(t.TempDir(), nil)

	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: []byte(`{"timeout_ms": "soon"}`)}}
	result, err := server.handleAnalyzeArchitecture(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
