package config

import (
	"runtime"
	"strconv"
)

// Config is the fully-enumerated analysis configuration. Every heuristic
// threshold and naming convention lives here with a documented default;
// nothing domain-specific is hardcoded in the classification logic.
type Config struct {
	Version   int
	Project   Project
	Discovery Discovery
	Naming    Naming
	Debt      Debt
	Analysis  Analysis
}

type Project struct {
	Root string // analysis root path
	Name string // optional project name for report headers
}

type Discovery struct {
	IncludeGlobs         []string // doublestar patterns, relative to root (default: **/*.cs)
	ExcludeGlobs         []string // doublestar patterns (default: bin/obj/test directories)
	MaxFileSize          int64    // files above this size are skipped (default: 2MB)
	DetectBuildArtifacts bool     // auto-exclude build output dirs found in project manifests
}

// Naming holds the suffix sets and keyword lists driving layer
// classification. All lists are matched case-sensitively against class
// names; integration keywords are app-supplied, never baked in.
type Naming struct {
	PresentationSuffixes   []string // default: Controller
	ServiceSuffixes        []string // default: Service
	RepositorySuffixes     []string // default: Repository
	InfrastructureSuffixes []string // default: Helper, Utility, Manager
	IntegrationKeywords    []string // e.g. Epic, Cerner; empty means no Integration layer
	FrameworkPrefixes      []string // namespace denylist for dependency edges (default: System, Microsoft)
}

// Debt holds technical-debt thresholds and cost parameters.
type Debt struct {
	GodClassMethodThreshold int     // method count above which a class is a god class (default: 15)
	HighComplexityThreshold int     // cyclomatic complexity above which a method is flagged (default: 10)
	MaxReportedItems        int     // top-N items retained in the report (default: 20)
	HourlyRate              float64 // dollars per estimated hour (default: 200)
}

// Analysis holds run-level execution settings.
type Analysis struct {
	Workers           int // parallel per-file workers, 0 = NumCPU
	AnalysisTimeoutMs int // whole-run deadline, 0 = no deadline
}

// Default returns a Config populated with every documented default.
func Default() *Config {
	return &Config{
		Version: 1,
		Discovery: Discovery{
			IncludeGlobs: []string{"**/*.cs"},
			ExcludeGlobs: []string{
				"**/bin/**",
				"**/obj/**",
				"**/*Tests/**",
				"**/*Test/**",
				"**/node_modules/**",
			},
			MaxFileSize:          2 * 1024 * 1024,
			DetectBuildArtifacts: true,
		},
		Naming: Naming{
			PresentationSuffixes:   []string{"Controller"},
			ServiceSuffixes:        []string{"Service"},
			RepositorySuffixes:     []string{"Repository"},
			InfrastructureSuffixes: []string{"Helper", "Utility", "Manager"},
			IntegrationKeywords:    []string{},
			FrameworkPrefixes:      []string{"System", "Microsoft"},
		},
		Debt: Debt{
			GodClassMethodThreshold: 15,
			HighComplexityThreshold: 10,
			MaxReportedItems:        20,
			HourlyRate:              200,
		},
		Analysis: Analysis{
			Workers:           runtime.NumCPU(),
			AnalysisTimeoutMs: 0,
		},
	}
}

// Fingerprint returns a stable textual rendering of every configuration
// field that influences analysis output. It feeds the report input digest,
// so two runs with different heuristics never share a digest.
func (c *Config) Fingerprint() string {
	out := "v1|root=" + c.Project.Root
	for _, section := range [][]string{
		c.Discovery.IncludeGlobs,
		c.Discovery.ExcludeGlobs,
		c.Naming.PresentationSuffixes,
		c.Naming.ServiceSuffixes,
		c.Naming.RepositorySuffixes,
		c.Naming.InfrastructureSuffixes,
		c.Naming.IntegrationKeywords,
		c.Naming.FrameworkPrefixes,
	} {
		out += "|"
		for _, s := range section {
			out += s + ","
		}
	}
	out += "|" + strconv.Itoa(c.Debt.GodClassMethodThreshold) +
		"," + strconv.Itoa(c.Debt.HighComplexityThreshold) +
		"," + strconv.Itoa(c.Debt.MaxReportedItems) +
		"," + strconv.FormatFloat(c.Debt.HourlyRate, 'f', -1, 64)
	return out
}
