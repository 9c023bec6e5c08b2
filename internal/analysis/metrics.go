package analysis

import (
	"math"

	"github.com/archlens/archlens/internal/types"
)

// AggregateMetrics computes the maintainability summary over the arena.
//
// The score is a documented design choice, not a rediscovered constant:
// clamp(100 - avgComplexity*5 - max(0, avgMethodsPerClass-10)*2, 0, 100).
// It is monotonically decreasing in both average complexity and class
// bloat, bounded, and deterministic.
func AggregateMetrics(arena *types.ClassArena) types.MaintainabilityMetrics {
	metrics := types.MaintainabilityMetrics{
		TotalClasses: arena.Len(),
	}

	complexitySum := 0
	for i := range arena.Classes {
		for _, method := range arena.Classes[i].Methods {
			metrics.TotalMethods++
			complexitySum += method.Complexity
		}
	}

	if metrics.TotalMethods > 0 {
		metrics.AverageComplexity = round2(float64(complexitySum) / float64(metrics.TotalMethods))
	}
	if metrics.TotalClasses > 0 {
		metrics.AverageMethodsPerClass = round2(float64(metrics.TotalMethods) / float64(metrics.TotalClasses))
	}

	score := 100.0 - metrics.AverageComplexity*5 - math.Max(0, metrics.AverageMethodsPerClass-10)*2
	metrics.MaintainabilityScore = round2(math.Min(100, math.Max(0, score)))
	metrics.Rating = ratingFor(metrics.MaintainabilityScore)

	return metrics
}

func ratingFor(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}

// round2 rounds to two decimals so averages serialize identically across
// runs and platforms.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
