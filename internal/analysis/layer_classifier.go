// Package analysis hosts the whole-program stages that run after per-file
// extraction completes: layer classification, pattern detection, graph
// construction, maintainability metrics and technical-debt rules. Every
// stage is a pure function of the class arena plus configuration, which is
// what makes reports reproducible byte for byte.
package analysis

import (
	"strings"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/types"
)

// LayerClassifier assigns each class to exactly one architectural layer
// using configured naming and structural heuristics.
type LayerClassifier struct {
	naming config.Naming
}

// NewLayerClassifier creates a classifier for the configured naming rules.
func NewLayerClassifier(naming config.Naming) *LayerClassifier {
	return &LayerClassifier{naming: naming}
}

// ClassifyAll returns one layer per arena class, indexed by ClassID. The
// arena itself is never mutated.
func (lc *LayerClassifier) ClassifyAll(arena *types.ClassArena) []types.Layer {
	layers := make([]types.Layer, arena.Len())
	for i := range arena.Classes {
		layers[i] = lc.Classify(&arena.Classes[i])
	}
	return layers
}

// Classify applies the rules in priority order:
//  1. presentation suffix
//  2. service suffix + integration keyword
//  3. service suffix
//  4. repository suffix, or properties-only shape (POCO)
//  5. infrastructure suffix
//  6. Unknown
func (lc *LayerClassifier) Classify(class *types.ClassModel) types.Layer {
	name := class.Name

	if hasAnySuffix(name, lc.naming.PresentationSuffixes) {
		return types.LayerPresentation
	}
	if hasAnySuffix(name, lc.naming.ServiceSuffixes) {
		if _, ok := lc.IntegrationKeyword(name); ok {
			return types.LayerIntegration
		}
		return types.LayerBusiness
	}
	if hasAnySuffix(name, lc.naming.RepositorySuffixes) {
		return types.LayerData
	}
	if len(class.Methods) == 0 && len(class.Properties) > 0 {
		return types.LayerData
	}
	if hasAnySuffix(name, lc.naming.InfrastructureSuffixes) {
		return types.LayerInfrastructure
	}
	return types.LayerUnknown
}

// IntegrationKeyword returns the first configured integration keyword the
// class name contains. Keywords are app-supplied; none are built in.
func (lc *LayerClassifier) IntegrationKeyword(name string) (string, bool) {
	for _, keyword := range lc.naming.IntegrationKeywords {
		if keyword != "" && strings.Contains(name, keyword) {
			return keyword, true
		}
	}
	return "", false
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
