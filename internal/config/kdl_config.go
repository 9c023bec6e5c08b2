package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// ConfigFileName is the per-project configuration file.
const ConfigFileName = ".archlens.kdl"

// Load resolves configuration for a project directory: defaults, then the
// project .archlens.kdl when present. CLI flag overrides are applied by the
// caller afterward.
func Load(projectRoot string) (*Config, error) {
	cfg, err := LoadKDL(projectRoot)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}
	if cfg.Project.Root == "" {
		absRoot, err := filepath.Abs(projectRoot)
		if err != nil {
			absRoot = projectRoot
		}
		cfg.Project.Root = absRoot
	}
	return cfg, nil
}

// LoadKDL attempts to load configuration from a .archlens.kdl file in the
// given directory. Returns (nil, nil) when the file does not exist.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ConfigFileName)

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	// Resolve the root relative to the directory holding the config file so
	// path handling stays consistent regardless of the invocation cwd.
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}

	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children { // project { root "." name "clinic" }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "discovery":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "include":
					cfg.Discovery.IncludeGlobs = collectStringArgs(cn)
				case "exclude":
					cfg.Discovery.ExcludeGlobs = collectStringArgs(cn)
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Discovery.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Discovery.MaxFileSize = sz
						}
					}
				case "detect_build_artifacts":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Discovery.DetectBuildArtifacts = b
					}
				}
			}
		case "naming":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "presentation_suffixes":
					cfg.Naming.PresentationSuffixes = collectStringArgs(cn)
				case "service_suffixes":
					cfg.Naming.ServiceSuffixes = collectStringArgs(cn)
				case "repository_suffixes":
					cfg.Naming.RepositorySuffixes = collectStringArgs(cn)
				case "infrastructure_suffixes":
					cfg.Naming.InfrastructureSuffixes = collectStringArgs(cn)
				case "integration_keywords":
					cfg.Naming.IntegrationKeywords = collectStringArgs(cn)
				case "framework_prefixes":
					cfg.Naming.FrameworkPrefixes = collectStringArgs(cn)
				}
			}
		case "debt":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "god_class_method_threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Debt.GodClassMethodThreshold = v
					}
				case "high_complexity_threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Debt.HighComplexityThreshold = v
					}
				case "max_reported_items":
					if v, ok := firstIntArg(cn); ok {
						cfg.Debt.MaxReportedItems = v
					}
				case "hourly_rate":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Debt.HourlyRate = v
					}
				}
			}
		case "analysis":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.Workers = v
					}
				case "timeout_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.AnalysisTimeoutMs = v
					}
				}
			}
		}
	}

	return cfg, nil
}

// Helper functions over the kdl-go document model.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "bin/**" "obj/**" } puts each string in a
	// child node whose name is the string value itself.
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	default:
		numStr = s
	}

	var n int64
	if _, err := fmt.Sscanf(numStr, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * multiplier, nil
}
