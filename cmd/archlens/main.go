package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/debug"
	"github.com/archlens/archlens/internal/display"
	"github.com/archlens/archlens/internal/mcp"
	"github.com/archlens/archlens/internal/pipeline"
	"github.com/archlens/archlens/internal/types"
	"github.com/archlens/archlens/internal/version"
	"github.com/archlens/archlens/internal/watch"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", absRoot, err)
	}
	cfg.Project.Root = absRoot

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Discovery.IncludeGlobs = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Discovery.ExcludeGlobs = append(cfg.Discovery.ExcludeGlobs, excludeFlags...)
	}
	if keywords := c.StringSlice("integration-keyword"); len(keywords) > 0 {
		cfg.Naming.IntegrationKeywords = keywords
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}
	if timeoutMs := c.Int("timeout-ms"); timeoutMs > 0 {
		cfg.Analysis.AnalysisTimeoutMs = timeoutMs
	}

	return cfg, nil
}

func main() {
	if debug.IsDebugEnabled() {
		debug.SetDebugOutput(os.Stderr)
	}

	app := &cli.App{
		Name:                   "archlens",
		Usage:                  "Static architecture analysis for C#-style source trees",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to analyze (defaults to the current directory)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.cs')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/Generated/**')",
			},
			&cli.StringSliceFlag{
				Name:  "integration-keyword",
				Usage: "Class-name keyword marking an external integration point (e.g., --integration-keyword Epic)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel per-file extraction workers (0 = CPU count)",
			},
			&cli.IntFlag{
				Name:  "timeout-ms",
				Usage: "Whole-run deadline in milliseconds (0 = no deadline)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "analyze",
				Aliases: []string{"a"},
				Usage:   "Analyze the source tree and print the architecture report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, compact",
						Value:   "text",
					},
					&cli.BoolFlag{
						Name:  "evidence",
						Usage: "Show per-pattern evidence in text output",
					},
					&cli.BoolFlag{
						Name:  "flows",
						Usage: "Show the data-flow section in text output",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a file instead of stdout",
					},
				},
				Action: runAnalyze,
			},
			{
				Name:  "watch",
				Usage: "Re-run the analysis whenever source files change",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "debounce-ms",
						Usage: "Quiet period after the last change before re-analyzing",
						Value: 250,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, compact",
						Value:   "compact",
					},
				},
				Action: runWatch,
			},
			{
				Name:   "serve",
				Usage:  "Serve the analyzer as an MCP stdio server",
				Action: runServe,
			},
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	engine, err := pipeline.NewEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	out := formatterFor(c).Format(report)

	if path := c.String("output"); path != "" {
		return os.WriteFile(path, []byte(out), 0o644)
	}
	fmt.Print(out)
	return nil
}

func runWatch(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	engine, err := pipeline.NewEngine(cfg)
	if err != nil {
		return err
	}

	formatter := formatterFor(c)
	watcher, err := watch.NewWatcher(cfg, engine, time.Duration(c.Int("debounce-ms"))*time.Millisecond)
	if err != nil {
		return err
	}
	watcher.SetCallbacks(
		func(report *types.AnalysisReport) { fmt.Print(formatter.Format(report)) },
		func(err error) { log.Printf("analysis failed: %v", err) },
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("watching %s (Ctrl-C to stop)", cfg.Project.Root)
	return watcher.Start(ctx)
}

func runServe(c *cli.Context) error {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	// MCP talks JSON-RPC on stdout; diagnostics must go to stderr.
	debug.SetMCPMode(true)
	logger := log.New(os.Stderr, "archlens: ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcp.NewServer(absRoot, logger).Start(ctx)
}

func formatterFor(c *cli.Context) *display.ReportFormatter {
	return display.NewReportFormatter(display.FormatterOptions{
		Format:       c.String("format"),
		ShowEvidence: c.Bool("evidence"),
		ShowFlows:    c.Bool("flows"),
	})
}
