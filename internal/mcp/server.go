// Package mcp exposes the analysis engine over the Model Context Protocol
// with a stdio transport, so agent tooling can request architecture reports
// without shelling out to the CLI.
package mcp

import (
	"context"
	"log"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/version"
)

// Server wires the analysis pipeline into MCP tools. One server handles one
// stdio session; per-call state lives in the handlers.
type Server struct {
	server      *mcp.Server
	defaultRoot string
	logger      *log.Logger
}

// NewServer creates an MCP server. defaultRoot is used when a tool call
// omits its own root path.
func NewServer(defaultRoot string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		defaultRoot: defaultRoot,
		logger:      logger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "archlens-mcp-server",
		Version: version.Version,
	}, nil)

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "analyze_architecture",
		Description: "Run a full static architecture analysis of a source tree: layers, design patterns, dependency graph, data flows, maintainability metrics and technical debt.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "Project root directory to analyze (defaults to the server's working root)",
				},
				"include": {
					Type:        "array",
					Description: "Include globs overriding the configured file selection, e.g. [\"src/**/*.cs\"]",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"exclude": {
					Type:        "array",
					Description: "Additional exclude globs",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"integration_keywords": {
					Type:        "array",
					Description: "Class-name keywords marking external integration points, e.g. [\"Epic\", \"Cerner\"]",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"timeout_ms": {
					Type:        "integer",
					Description: "Whole-run deadline in milliseconds (0 = no deadline)",
				},
			},
		},
	}, s.handleAnalyzeArchitecture)

	s.server.AddTool(&mcp.Tool{
		Name:        "analysis_config",
		Description: "Show the effective analysis configuration for a project directory: defaults merged with its .archlens.kdl, plus the configuration fingerprint.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "Project root directory (defaults to the server's working root)",
				},
			},
		},
	}, s.handleAnalysisConfig)

	s.server.AddTool(&mcp.Tool{
		Name:        "version",
		Description: "Report the analyzer version and build fingerprint.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
		},
	}, s.handleVersion)
}

// Start runs the server over stdio until the context is done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Printf("Starting MCP server with stdio transport (root: %s)", s.defaultRoot)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// resolveConfig loads the project configuration for a tool call.
func (s *Server) resolveConfig(root string) (*config.Config, error) {
	if root == "" {
		root = s.defaultRoot
	}
	return config.Load(root)
}
