package analysis

import (
	"sort"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/types"
)

// DataFlowNote is attached to every report carrying data-flow edges: the
// correlation is a naming heuristic over constructor and field types, not
// a call graph, and consumers must read it that way.
const DataFlowNote = "Data-flow edges are derived from constructor/field type-name correlation across layers; they approximate likely call paths and are not a precise call graph."

// DataFlowMapper correlates cross-layer references into directed flow
// edges: Presentation classes that hold a Business type yield MethodCall
// edges, Business classes that hold an Integration type yield ExternalCall
// edges tagged with the matched external system.
type DataFlowMapper struct {
	classifier *LayerClassifier
}

// NewDataFlowMapper creates a mapper for the configured naming rules.
func NewDataFlowMapper(naming config.Naming) *DataFlowMapper {
	return &DataFlowMapper{classifier: NewLayerClassifier(naming)}
}

// Map walks the arena once per transition kind and emits deduplicated,
// deterministically ordered edges.
func (m *DataFlowMapper) Map(arena *types.ClassArena, layers []types.Layer) []types.DataFlowEdge {
	var edges []types.DataFlowEdge
	seen := make(map[string]bool)

	add := func(edge types.DataFlowEdge) {
		key := edge.From + "\x00" + edge.To + "\x00" + string(edge.Kind)
		if !seen[key] {
			seen[key] = true
			edges = append(edges, edge)
		}
	}

	for id := range arena.Classes {
		class := &arena.Classes[id]

		switch layers[id] {
		case types.LayerPresentation:
			for _, target := range m.resolveReferences(arena, class, layers, types.LayerBusiness) {
				add(types.DataFlowEdge{
					From:            class.Name,
					To:              target,
					LayerTransition: "Presentation->Business",
					Kind:            types.FlowMethodCall,
				})
			}
		case types.LayerBusiness:
			for _, target := range m.resolveReferences(arena, class, layers, types.LayerIntegration) {
				keyword, _ := m.classifier.IntegrationKeyword(target)
				add(types.DataFlowEdge{
					From:            class.Name,
					To:              target,
					LayerTransition: "Business->Integration",
					Kind:            types.FlowExternalCall,
					ExternalSystem:  keyword,
				})
			}
			for _, target := range m.resolveReferences(arena, class, layers, types.LayerData) {
				add(types.DataFlowEdge{
					From:            class.Name,
					To:              target,
					LayerTransition: "Business->Data",
					Kind:            types.FlowDataAccess,
				})
			}
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

// resolveReferences returns the names of classes in the wanted layer that
// this class references through constructor parameters, fields or
// properties. Matching is by type name (with the I-prefix interface
// convention); order follows the reference order in the class.
func (m *DataFlowMapper) resolveReferences(arena *types.ClassArena, class *types.ClassModel, layers []types.Layer, wanted types.Layer) []string {
	var refs []string
	refs = append(refs, class.CtorParamTypes...)
	refs = append(refs, class.FieldTypes...)
	for _, prop := range class.Properties {
		refs = append(refs, prop.TypeName)
	}

	var out []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		id, ok := arena.LookupType(bareTypeName(ref))
		if !ok {
			continue
		}
		// An interface reference resolves to its implementation for layer
		// purposes; skip self references.
		target := arena.Get(id)
		if target.Kind == types.KindInterface {
			if implID, ok := arena.LookupType(target.Name[1:]); ok && target.Name[0] == 'I' {
				id = implID
				target = arena.Get(id)
			}
		}
		if target.Name == class.Name || layers[id] != wanted || seen[target.Name] {
			continue
		}
		seen[target.Name] = true
		out = append(out, target.Name)
	}

	return out
}
