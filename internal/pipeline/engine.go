// Package pipeline orchestrates one analysis run: discovery, concurrent
// per-file extraction, arena assembly and the aggregation stages, composed
// into a single deterministic report.
package pipeline

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/archlens/archlens/internal/analysis"
	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/debug"
	"github.com/archlens/archlens/internal/discovery"
	archerrors "github.com/archlens/archlens/internal/errors"
	"github.com/archlens/archlens/internal/extractor"
	"github.com/archlens/archlens/internal/types"
)

// Engine runs the full analysis pipeline for one configuration. Safe to
// reuse across runs; each Run builds fresh state.
type Engine struct {
	cfg *config.Config
}

// NewEngine validates the configuration and returns a ready engine.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if err := config.NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// fileResult is one worker's output slot. Slots are merged in discovery
// order so the arena layout never depends on scheduling.
type fileResult struct {
	classes []types.ClassModel
	hash    uint64
	warning *types.Warning
}

// Run executes the pipeline and returns the report. A deadline expiring at
// any stage aborts the whole run with a TimeoutError; per-file parse
// failures are recovered into report warnings instead.
func (e *Engine) Run(ctx context.Context) (*types.AnalysisReport, error) {
	timeout := time.Duration(e.cfg.Analysis.AnalysisTimeoutMs) * time.Millisecond
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	paths, err := discovery.NewScanner(e.cfg).Discover(ctx)
	if err != nil {
		return nil, e.mapRunError("discovery", err, timeout)
	}
	debug.LogPipeline("discovered %d files under %s\n", len(paths), e.cfg.Project.Root)

	results := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Analysis.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.extractOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, e.mapRunError("extraction", err, timeout)
	}
	if err := ctx.Err(); err != nil {
		return nil, e.mapRunError("extraction", err, timeout)
	}

	var classes []types.ClassModel
	warnings := []types.Warning{}
	for _, result := range results {
		classes = append(classes, result.classes...)
		if result.warning != nil {
			warnings = append(warnings, *result.warning)
		}
	}

	arena := types.NewClassArena(classes)
	debug.LogPipeline("merged %d classes from %d files (%d warnings)\n", arena.Len(), len(paths), len(warnings))
	naming := e.cfg.Naming

	layers := analysis.NewLayerClassifier(naming).ClassifyAll(arena)
	patterns := analysis.NewPatternDetector(naming).Detect(arena, layers)
	dependencies := analysis.NewDependencyGraphBuilder(naming).Build(arena)
	dataFlows := analysis.NewDataFlowMapper(naming).Map(arena, layers)
	metrics := analysis.AggregateMetrics(arena)
	debt := analysis.NewDebtIdentifier(e.cfg.Debt).Identify(arena)

	if err := ctx.Err(); err != nil {
		return nil, e.mapRunError("aggregation", err, timeout)
	}

	return &types.AnalysisReport{
		RootPath:     e.cfg.Project.Root,
		Dialect:      types.DialectCSharp,
		InputDigest:  inputDigest(paths, results, e.cfg.Fingerprint()),
		Layers:       groupByLayer(arena, layers),
		Patterns:     patterns,
		Dependencies: dependencies,
		DataFlows:    dataFlows,
		DataFlowNote: analysis.DataFlowNote,
		Metrics:      metrics,
		Debt:         debt,
		Warnings:     warnings,
	}, nil
}

// extractOne reads and extracts a single file. Failures are recovered into
// a warning; the file contributes no classes but its path still enters the
// input digest through the discovery list.
func (e *Engine) extractOne(path string) fileResult {
	content, err := os.ReadFile(filepath.Join(e.cfg.Project.Root, filepath.FromSlash(path)))
	if err != nil {
		return fileResult{warning: &types.Warning{File: path, Reason: fmt.Sprintf("unreadable: %v", err)}}
	}

	file := &types.SourceFile{
		Path:     path,
		Content:  content,
		Dialect:  types.DialectCSharp,
		FastHash: xxhash.Sum64(content),
	}

	classes, err := extractor.ExtractFile(file)
	if err != nil {
		reason := err.Error()
		var parseWarning *archerrors.ParseWarning
		if errors.As(err, &parseWarning) {
			reason = parseWarning.Reason
		}
		return fileResult{
			hash:    file.FastHash,
			warning: &types.Warning{File: path, Reason: reason},
		}
	}

	return fileResult{classes: classes, hash: file.FastHash}
}

// mapRunError converts context expiry into the timeout error and wraps
// everything else with the failing stage. Filesystem errors already carry
// their classification and pass through unchanged.
func (e *Engine) mapRunError(stage string, err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return archerrors.NewTimeoutError(timeout)
	}
	var fsErr *archerrors.FileSystemError
	if errors.As(err, &fsErr) {
		return err
	}
	return archerrors.NewAnalysisError(stage, err)
}

// inputDigest hashes the discovered paths, their content hashes and the
// configuration fingerprint into one stable run identifier. Paths arrive
// sorted from discovery.
func inputDigest(paths []string, results []fileResult, fingerprint string) string {
	digest := xxhash.New()
	var buf [8]byte
	for i, path := range paths {
		digest.WriteString(path)
		digest.WriteString("\n")
		binary.LittleEndian.PutUint64(buf[:], results[i].hash)
		digest.Write(buf[:])
	}
	digest.WriteString(fingerprint)
	return fmt.Sprintf("%016x", digest.Sum64())
}

// groupByLayer projects the arena into report order: layers in fixed order,
// classes in arena order within each layer. Empty layers are omitted.
func groupByLayer(arena *types.ClassArena, layers []types.Layer) []types.LayerGroup {
	groups := []types.LayerGroup{}
	for _, layer := range types.AllLayers {
		var members []types.ClassModel
		for id := range arena.Classes {
			if layers[id] == layer {
				members = append(members, arena.Classes[id])
			}
		}
		if len(members) > 0 {
			groups = append(groups, types.LayerGroup{Layer: layer, Classes: members})
		}
	}
	return groups
}
