package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeBodyBaseline(t *testing.T) {
	complexity, hasCatch, statements := analyzeBody([]byte("return x;"))
	assert.Equal(t, 1, complexity)
	assert.False(t, hasCatch)
	assert.Equal(t, 1, statements)
}

func TestAnalyzeBodyShortCircuitOperators(t *testing.T) {
	complexity, _, _ := analyzeBody([]byte("var ok = a && b || c;"))
	assert.Equal(t, 3, complexity)
}

func TestAnalyzeBodyTernaryVsNullOperators(t *testing.T) {
	// Standalone ternary counts.
	complexity, _, _ := analyzeBody([]byte("var x = flag ? 1 : 2;"))
	assert.Equal(t, 2, complexity)

	// Null-coalescing and null-conditional do not.
	complexity, _, _ = analyzeBody([]byte("var y = a ?? b; var z = c?.Name;"))
	assert.Equal(t, 1, complexity)
}

func TestAnalyzeBodyCatchSetsErrorHandling(t *testing.T) {
	complexity, hasCatch, _ := analyzeBody([]byte("try { Run(); } catch (Exception e) { Log(e); }"))
	assert.Equal(t, 2, complexity)
	assert.True(t, hasCatch)
}

func TestAnalyzeBodyKeywordsInsideIdentifiersIgnored(t *testing.T) {
	complexity, hasCatch, _ := analyzeBody([]byte("Notify(); shift(); forEachItem(); caseload++;"))
	assert.Equal(t, 1, complexity)
	assert.False(t, hasCatch)
}

func TestAnalyzeBodyStatementCount(t *testing.T) {
	_, _, statements := analyzeBody([]byte("var a = 1; var b = 2; Use(a, b);"))
	assert.Equal(t, 3, statements)
}
