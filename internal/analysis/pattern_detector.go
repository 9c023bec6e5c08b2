package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/types"
)

// PatternDetector evaluates evidence-based predicates over the layer
// grouping and reports recognized design patterns with a confidence level.
// Confidence is monotonic in evidence: adding corroborating evidence never
// lowers it.
type PatternDetector struct {
	naming config.Naming
}

// NewPatternDetector creates a detector for the configured naming rules.
func NewPatternDetector(naming config.Naming) *PatternDetector {
	return &PatternDetector{naming: naming}
}

// Detect evaluates all recognized patterns in a fixed order. Classes in the
// Unknown layer contribute no evidence.
func (pd *PatternDetector) Detect(arena *types.ClassArena, layers []types.Layer) []types.Pattern {
	counts := make(map[types.Layer]int)
	for id := range arena.Classes {
		counts[layers[id]]++
	}

	return []types.Pattern{
		pd.detectMVC(counts),
		pd.detectDependencyInjection(arena, layers),
		pd.detectRepository(arena, layers, counts),
		pd.detectServiceLayer(counts),
		pd.detectIntegrationLayer(arena, layers, counts),
	}
}

// confidenceFor maps evidence categories to a confidence level: all
// required categories present yields Medium, two or more beyond the
// minimum yields High. Missing required evidence is NotDetected.
func confidenceFor(requiredMet bool, corroborating int) types.Confidence {
	switch {
	case !requiredMet:
		return types.ConfidenceNotDetected
	case corroborating >= 2:
		return types.ConfidenceHigh
	case corroborating >= 1:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func (pd *PatternDetector) detectMVC(counts map[types.Layer]int) types.Pattern {
	pattern := types.Pattern{Name: "MVC"}

	presentation := counts[types.LayerPresentation]
	business := counts[types.LayerBusiness]
	data := counts[types.LayerData]

	if presentation == 0 || business == 0 {
		pattern.Confidence = types.ConfidenceNotDetected
		return pattern
	}

	pattern.Evidence = append(pattern.Evidence,
		fmt.Sprintf("%d presentation class(es) found", presentation),
		fmt.Sprintf("%d business class(es) found", business))

	corroborating := 1
	if data > 0 {
		corroborating++
		pattern.Evidence = append(pattern.Evidence,
			fmt.Sprintf("%d data class(es) found", data))
	}

	pattern.Confidence = confidenceFor(true, corroborating)
	return pattern
}

func (pd *PatternDetector) detectDependencyInjection(arena *types.ClassArena, layers []types.Layer) types.Pattern {
	pattern := types.Pattern{Name: "Dependency Injection"}

	injectionSites := 0
	for id := range arena.Classes {
		if layers[id] == types.LayerUnknown {
			continue
		}
		class := &arena.Classes[id]
		for _, paramType := range class.CtorParamTypes {
			if isInterfaceType(arena, paramType) {
				injectionSites++
				if len(pattern.Evidence) < 5 {
					pattern.Evidence = append(pattern.Evidence,
						fmt.Sprintf("%s injects %s through its constructor", class.Name, paramType))
				}
			}
		}
	}

	if injectionSites == 0 {
		pattern.Confidence = types.ConfidenceNotDetected
		pattern.Evidence = nil
		return pattern
	}

	corroborating := 1
	if injectionSites >= 3 {
		corroborating++
	}
	pattern.Confidence = confidenceFor(true, corroborating)
	return pattern
}

func (pd *PatternDetector) detectRepository(arena *types.ClassArena, layers []types.Layer, counts map[types.Layer]int) types.Pattern {
	pattern := types.Pattern{Name: "Repository Pattern"}

	repositories := 0
	for id := range arena.Classes {
		if layers[id] != types.LayerData {
			continue
		}
		if hasAnySuffix(arena.Classes[id].Name, pd.naming.RepositorySuffixes) {
			repositories++
			if len(pattern.Evidence) < 5 {
				pattern.Evidence = append(pattern.Evidence,
					fmt.Sprintf("repository class %s found", arena.Classes[id].Name))
			}
		}
	}

	if repositories == 0 {
		pattern.Confidence = types.ConfidenceNotDetected
		pattern.Evidence = nil
		return pattern
	}

	corroborating := 1
	if repositories >= 2 {
		corroborating++
	}
	pattern.Confidence = confidenceFor(true, corroborating)
	return pattern
}

func (pd *PatternDetector) detectServiceLayer(counts map[types.Layer]int) types.Pattern {
	pattern := types.Pattern{Name: "Service Layer"}

	business := counts[types.LayerBusiness]
	if business == 0 {
		pattern.Confidence = types.ConfidenceNotDetected
		return pattern
	}

	pattern.Evidence = append(pattern.Evidence,
		fmt.Sprintf("%d service class(es) found", business))

	corroborating := 1
	if business >= 2 {
		corroborating++
	}
	pattern.Confidence = confidenceFor(true, corroborating)
	return pattern
}

func (pd *PatternDetector) detectIntegrationLayer(arena *types.ClassArena, layers []types.Layer, counts map[types.Layer]int) types.Pattern {
	pattern := types.Pattern{Name: "Integration Layer"}

	if counts[types.LayerIntegration] == 0 {
		pattern.Confidence = types.ConfidenceNotDetected
		return pattern
	}

	classifier := NewLayerClassifier(pd.naming)
	systems := make(map[string]bool)
	for id := range arena.Classes {
		if layers[id] != types.LayerIntegration {
			continue
		}
		class := &arena.Classes[id]
		if keyword, ok := classifier.IntegrationKeyword(class.Name); ok {
			systems[keyword] = true
		}
		if len(pattern.Evidence) < 5 {
			pattern.Evidence = append(pattern.Evidence,
				fmt.Sprintf("integration class %s found", class.Name))
		}
	}

	pattern.ExternalSystems = make([]string, 0, len(systems))
	for system := range systems {
		pattern.ExternalSystems = append(pattern.ExternalSystems, system)
	}
	sort.Strings(pattern.ExternalSystems)

	if len(pattern.ExternalSystems) > 0 {
		pattern.Evidence = append(pattern.Evidence,
			fmt.Sprintf("external systems: %s", strings.Join(pattern.ExternalSystems, ", ")))
	}

	corroborating := 1
	if len(pattern.ExternalSystems) >= 2 || counts[types.LayerIntegration] >= 2 {
		corroborating++
	}
	pattern.Confidence = confidenceFor(true, corroborating)
	return pattern
}

// isInterfaceType reports whether a constructor parameter type looks like
// an interface: either a declared interface in the arena or the I-prefix
// naming convention.
func isInterfaceType(arena *types.ClassArena, typeName string) bool {
	bare := bareTypeName(typeName)
	if id, ok := arena.Lookup(bare); ok {
		return arena.Get(id).Kind == types.KindInterface
	}
	return len(bare) > 1 && bare[0] == 'I' && bare[1] >= 'A' && bare[1] <= 'Z'
}

// bareTypeName strips namespace qualifiers and generic arguments so
// "Clinic.Services.IScheduler<Slot>" compares as "IScheduler".
func bareTypeName(typeName string) string {
	if idx := strings.Index(typeName, "<"); idx != -1 {
		typeName = typeName[:idx]
	}
	if idx := strings.LastIndex(typeName, "."); idx != -1 {
		typeName = typeName[idx+1:]
	}
	return strings.TrimSuffix(typeName, "?")
}
