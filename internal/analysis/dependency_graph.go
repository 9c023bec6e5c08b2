package analysis

import (
	"sort"
	"strings"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/types"
)

// DependencyGraphBuilder extracts namespace-usage and inheritance edges.
// The output is a deduplicated, sorted edge list for reporting; no graph
// algorithms run over it.
type DependencyGraphBuilder struct {
	frameworkPrefixes []string
}

// NewDependencyGraphBuilder creates a builder with the configured
// framework-namespace denylist.
func NewDependencyGraphBuilder(naming config.Naming) *DependencyGraphBuilder {
	return &DependencyGraphBuilder{frameworkPrefixes: naming.FrameworkPrefixes}
}

// Build emits one Namespace edge per non-framework import and one
// Inheritance edge per base type, deduplicated by (from, to, kind).
func (b *DependencyGraphBuilder) Build(arena *types.ClassArena) []types.Dependency {
	seen := make(map[types.Dependency]bool)
	var edges []types.Dependency

	add := func(edge types.Dependency) {
		if edge.From == edge.To {
			return
		}
		if !seen[edge] {
			seen[edge] = true
			edges = append(edges, edge)
		}
	}

	for id := range arena.Classes {
		class := &arena.Classes[id]

		for _, namespace := range class.Imports {
			if b.isFrameworkNamespace(namespace) {
				continue
			}
			add(types.Dependency{
				From: class.Name,
				To:   namespace,
				Kind: types.DependencyNamespace,
			})
		}

		for _, base := range class.BaseTypes {
			add(types.Dependency{
				From: class.Name,
				To:   bareTypeName(base),
				Kind: types.DependencyInheritance,
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Kind < edges[j].Kind
	})

	return edges
}

func (b *DependencyGraphBuilder) isFrameworkNamespace(namespace string) bool {
	for _, prefix := range b.frameworkPrefixes {
		if namespace == prefix || strings.HasPrefix(namespace, prefix+".") {
			return true
		}
	}
	return false
}
