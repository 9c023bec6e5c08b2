package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/types"
)

func defaultNaming() config.Naming {
	naming := config.Default().Naming
	naming.IntegrationKeywords = []string{"Epic", "Cerner"}
	return naming
}

func TestClassifyByRuleOrder(t *testing.T) {
	classifier := NewLayerClassifier(defaultNaming())

	tests := []struct {
		class types.ClassModel
		want  types.Layer
	}{
		{types.ClassModel{Name: "PatientController"}, types.LayerPresentation},
		{types.ClassModel{Name: "PatientService"}, types.LayerBusiness},
		{types.ClassModel{Name: "EpicService"}, types.LayerIntegration},
		{types.ClassModel{Name: "CernerIntegrationService"}, types.LayerIntegration},
		{types.ClassModel{Name: "PatientRepository"}, types.LayerData},
		{types.ClassModel{Name: "DateHelper"}, types.LayerInfrastructure},
		{types.ClassModel{Name: "CacheManager"}, types.LayerInfrastructure},
		{types.ClassModel{Name: "StringUtility"}, types.LayerInfrastructure},
		{types.ClassModel{Name: "Anything"}, types.LayerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(&tt.class))
		})
	}
}

func TestClassifyPocoHeuristic(t *testing.T) {
	classifier := NewLayerClassifier(defaultNaming())

	poco := types.ClassModel{
		Name:       "Patient",
		Properties: []types.PropertyModel{{Name: "Id", TypeName: "int"}},
	}
	assert.Equal(t, types.LayerData, classifier.Classify(&poco))

	// A class with methods is not a POCO even if it has properties.
	notPoco := types.ClassModel{
		Name:       "Patient",
		Properties: []types.PropertyModel{{Name: "Id", TypeName: "int"}},
		Methods:    []types.MethodModel{{Name: "Validate"}},
	}
	assert.Equal(t, types.LayerUnknown, classifier.Classify(&notPoco))

	// No members at all is Unknown, not Data.
	empty := types.ClassModel{Name: "Marker"}
	assert.Equal(t, types.LayerUnknown, classifier.Classify(&empty))
}

func TestPresentationSuffixWinsOverServiceKeyword(t *testing.T) {
	// Rule priority: presentation is checked before integration.
	classifier := NewLayerClassifier(defaultNaming())
	class := types.ClassModel{Name: "EpicController"}
	assert.Equal(t, types.LayerPresentation, classifier.Classify(&class))
}

func TestIntegrationRequiresConfiguredKeyword(t *testing.T) {
	naming := config.Default().Naming // no integration keywords configured
	classifier := NewLayerClassifier(naming)

	class := types.ClassModel{Name: "EpicService"}
	assert.Equal(t, types.LayerBusiness, classifier.Classify(&class))
}

func TestClassifyAllIsPureAndIndexed(t *testing.T) {
	arena := types.NewClassArena([]types.ClassModel{
		{Name: "PatientController"},
		{Name: "PatientService"},
		{Name: "PatientRepository"},
	})
	classifier := NewLayerClassifier(defaultNaming())

	first := classifier.ClassifyAll(arena)
	second := classifier.ClassifyAll(arena)
	assert.Equal(t, first, second)
	assert.Equal(t, types.LayerPresentation, first[0])
	assert.Equal(t, types.LayerBusiness, first[1])
	assert.Equal(t, types.LayerData, first[2])
}

func TestCustomSuffixConfiguration(t *testing.T) {
	naming := config.Naming{
		PresentationSuffixes: []string{"Page", "View"},
		ServiceSuffixes:      []string{"UseCase"},
		RepositorySuffixes:   []string{"Store"},
	}
	classifier := NewLayerClassifier(naming)

	assert.Equal(t, types.LayerPresentation, classifier.Classify(&types.ClassModel{Name: "CheckoutPage"}))
	assert.Equal(t, types.LayerBusiness, classifier.Classify(&types.ClassModel{Name: "CheckoutUseCase"}))
	assert.Equal(t, types.LayerData, classifier.Classify(&types.ClassModel{Name: "OrderStore"}))
	assert.Equal(t, types.LayerUnknown, classifier.Classify(&types.ClassModel{Name: "OrderController"}))
}
