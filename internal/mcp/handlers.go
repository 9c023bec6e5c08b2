package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/pipeline"
	"github.com/archlens/archlens/internal/version"
)

// AnalyzeParams are the arguments of the analyze_architecture tool.
type AnalyzeParams struct {
	Root                string   `json:"root"`
	Include             []string `json:"include"`
	Exclude             []string `json:"exclude"`
	IntegrationKeywords []string `json:"integration_keywords"`
	TimeoutMs           int      `json:"timeout_ms"`
}

// ConfigParams are the arguments of the analysis_config tool.
type ConfigParams struct {
	Root string `json:"root"`
}

func (s *Server) handleAnalyzeArchitecture(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AnalyzeParams
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("analyze_architecture", fmt.Errorf("invalid parameters: %w", err))
		}
	}

	cfg, err := s.resolveConfig(params.Root)
	if err != nil {
		return createErrorResponse("analyze_architecture", err)
	}
	if len(params.Include) > 0 {
		cfg.Discovery.IncludeGlobs = params.Include
	}
	if len(params.Exclude) > 0 {
		cfg.Discovery.ExcludeGlobs = append(cfg.Discovery.ExcludeGlobs, params.Exclude...)
	}
	if len(params.IntegrationKeywords) > 0 {
		cfg.Naming.IntegrationKeywords = params.IntegrationKeywords
	}
	if params.TimeoutMs > 0 {
		cfg.Analysis.AnalysisTimeoutMs = params.TimeoutMs
	}

	engine, err := pipeline.NewEngine(cfg)
	if err != nil {
		return createErrorResponse("analyze_architecture", err)
	}

	report, err := engine.Run(ctx)
	if err != nil {
		return createErrorResponse("analyze_architecture", err)
	}

	return createJSONResponse(report)
}

func (s *Server) handleAnalysisConfig(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ConfigParams
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("analysis_config", fmt.Errorf("invalid parameters: %w", err))
		}
	}

	cfg, err := s.resolveConfig(params.Root)
	if err != nil {
		return createErrorResponse("analysis_config", err)
	}

	return createJSONResponse(map[string]interface{}{
		"config":      cfg,
		"fingerprint": cfg.Fingerprint(),
		"configFile":  config.ConfigFileName,
	})
}

func (s *Server) handleVersion(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]string{
		"version": version.Version,
		"full":    version.FullInfo(),
		"buildId": version.BuildID(),
	})
}
