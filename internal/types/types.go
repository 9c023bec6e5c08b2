// Package types defines the structural model produced by the analysis
// pipeline: source files, extracted classes, layers, patterns, graphs,
// metrics and the final report.
//
// All values are created fresh per analysis run and are immutable once the
// producing stage completes. Classes live in a flat arena ([]ClassModel)
// and are referenced by ClassID everywhere downstream, so graph stages
// never repeat string-name lookups.
package types

// ClassID is an index into the class arena for a single analysis run.
type ClassID int32

// InvalidClassID marks an unresolved class reference.
const InvalidClassID ClassID = -1

// Dialect tags the source language flavor of a file.
type Dialect string

const (
	DialectCSharp Dialect = "csharp"
)

// SourceFile is a discovered file plus its raw content. Immutable once read.
type SourceFile struct {
	Path     string  // relative to the analysis root, forward slashes
	Content  []byte
	Dialect  Dialect
	FastHash uint64 // xxhash of Content for quick equality and run digests
}

// Visibility of a member as declared in source.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityPrivate   Visibility = "private"
)

// MethodModel describes one extracted method.
type MethodModel struct {
	Name             string     `json:"name"`
	Visibility       Visibility `json:"visibility"`
	IsAsync          bool       `json:"isAsync,omitempty"`
	ParameterCount   int        `json:"parameterCount"`
	Complexity       int        `json:"complexity"`
	HasErrorHandling bool       `json:"hasErrorHandling"`
	StatementCount   int        `json:"-"` // body statement count, used by debt rules only
	Line             int        `json:"line"`
}

// PropertyModel describes one extracted property.
type PropertyModel struct {
	Name       string     `json:"name"`
	TypeName   string     `json:"typeName"`
	Visibility Visibility `json:"visibility"`
}

// ClassKind distinguishes class-like declarations.
type ClassKind string

const (
	KindClass     ClassKind = "class"
	KindInterface ClassKind = "interface"
)

// ClassModel is the structural extraction of a single class or interface.
// It is owned by the extractor that produced it and read-only afterward;
// the architectural layer is assigned separately (see Layer) so the model
// itself never mutates.
type ClassModel struct {
	Name           string          `json:"name"`
	Kind           ClassKind       `json:"kind"`
	File           string          `json:"file"`
	Namespace      string          `json:"namespace,omitempty"`
	Methods        []MethodModel   `json:"methods"`
	Properties     []PropertyModel `json:"properties"`
	BaseTypes      []string        `json:"baseTypes,omitempty"`
	Imports        []string        `json:"imports,omitempty"`
	CtorParamTypes []string        `json:"-"` // constructor parameter type names
	FieldTypes     []string        `json:"-"` // instance field type names
}

// Layer is the architectural role assigned to a class. Exactly one value
// per class; classification is a pure function of the class shape and the
// analysis configuration.
type Layer int

const (
	LayerUnknown Layer = iota
	LayerPresentation
	LayerBusiness
	LayerData
	LayerIntegration
	LayerInfrastructure
)

// AllLayers lists layers in report order.
var AllLayers = []Layer{
	LayerPresentation,
	LayerBusiness,
	LayerData,
	LayerIntegration,
	LayerInfrastructure,
	LayerUnknown,
}

func (l Layer) String() string {
	switch l {
	case LayerPresentation:
		return "Presentation"
	case LayerBusiness:
		return "Business"
	case LayerData:
		return "Data"
	case LayerIntegration:
		return "Integration"
	case LayerInfrastructure:
		return "Infrastructure"
	default:
		return "Unknown"
	}
}

// MarshalText renders layers as their names in JSON output.
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a layer name; unrecognized names map to Unknown.
func (l *Layer) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Presentation":
		*l = LayerPresentation
	case "Business":
		*l = LayerBusiness
	case "Data":
		*l = LayerData
	case "Integration":
		*l = LayerIntegration
	case "Infrastructure":
		*l = LayerInfrastructure
	default:
		*l = LayerUnknown
	}
	return nil
}

// Confidence is the discrete rating attached to a detected pattern.
// Ordering matters: a higher value always means more corroborating
// evidence, which keeps confidence monotonic in evidence count.
type Confidence int

const (
	ConfidenceNotDetected Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "High"
	case ConfidenceMedium:
		return "Medium"
	case ConfidenceLow:
		return "Low"
	default:
		return "NotDetected"
	}
}

// MarshalText renders confidence as its name in JSON output.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a confidence name; unrecognized names map to
// NotDetected.
func (c *Confidence) UnmarshalText(text []byte) error {
	switch string(text) {
	case "High":
		*c = ConfidenceHigh
	case "Medium":
		*c = ConfidenceMedium
	case "Low":
		*c = ConfidenceLow
	default:
		*c = ConfidenceNotDetected
	}
	return nil
}

// Pattern is one recognized design pattern with its supporting evidence.
type Pattern struct {
	Name            string     `json:"name"`
	Confidence      Confidence `json:"confidence"`
	Evidence        []string   `json:"evidence,omitempty"`
	ExternalSystems []string   `json:"externalSystems,omitempty"`
}

// DependencyKind tags an edge in the dependency graph.
type DependencyKind string

const (
	DependencyNamespace   DependencyKind = "Namespace"
	DependencyInheritance DependencyKind = "Inheritance"
)

// Dependency is one deduplicated edge from a class to a namespace or base type.
type Dependency struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Kind DependencyKind `json:"kind"`
}

// FlowKind tags a cross-layer data-flow edge.
type FlowKind string

const (
	FlowMethodCall   FlowKind = "MethodCall"
	FlowExternalCall FlowKind = "ExternalCall"
	FlowDataAccess   FlowKind = "DataAccess"
)

// DataFlowEdge is a heuristic cross-layer flow derived from type-name
// correlation, not from call-site analysis.
type DataFlowEdge struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	LayerTransition string   `json:"layerTransition"`
	Kind            FlowKind `json:"kind"`
	ExternalSystem  string   `json:"externalSystem,omitempty"`
}

// MaintainabilityMetrics summarizes codebase health.
type MaintainabilityMetrics struct {
	TotalClasses           int     `json:"totalClasses"`
	TotalMethods           int     `json:"totalMethods"`
	AverageComplexity      float64 `json:"averageComplexity"`
	AverageMethodsPerClass float64 `json:"averageMethodsPerClass"`
	MaintainabilityScore   float64 `json:"maintainabilityScore"`
	Rating                 string  `json:"rating"`
}

// DebtKind names a technical-debt rule.
type DebtKind string

const (
	DebtGodClass             DebtKind = "GodClass"
	DebtHighComplexity       DebtKind = "HighComplexity"
	DebtMissingErrorHandling DebtKind = "MissingErrorHandling"
)

// Severity of a technical-debt item.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalText renders severity as its name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name; unrecognized names map to Low.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "High":
		*s = SeverityHigh
	case "Medium":
		*s = SeverityMedium
	default:
		*s = SeverityLow
	}
	return nil
}

// TechnicalDebtItem is one quantified finding.
type TechnicalDebtItem struct {
	Kind           DebtKind `json:"kind"`
	Location       string   `json:"location"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	EstimatedHours int      `json:"estimatedHours"`
}

// DebtSummary reflects the full unfiltered finding set, independent of how
// many items the report retains.
type DebtSummary struct {
	TotalItems     int    `json:"totalItems"`
	EstimatedHours int    `json:"estimatedHours"`
	EstimatedValue string `json:"estimatedValue"`
}

// TechnicalDebt groups retained items with the full-set summary.
type TechnicalDebt struct {
	Items   []TechnicalDebtItem `json:"items"`
	Summary DebtSummary         `json:"summary"`
}

// LayerGroup lists the classes assigned to one layer, in arena order
// (discovery order, then declaration order within a file).
type LayerGroup struct {
	Layer   Layer        `json:"layer"`
	Classes []ClassModel `json:"classes"`
}

// Warning records a recovered per-file failure.
type Warning struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// AnalysisReport is the single deterministic output of one run. Identical
// input files plus identical configuration produce byte-identical reports.
type AnalysisReport struct {
	RootPath     string                 `json:"rootPath"`
	Dialect      Dialect                `json:"dialect"`
	InputDigest  string                 `json:"inputDigest"`
	Layers       []LayerGroup           `json:"layers"`
	Patterns     []Pattern              `json:"patterns"`
	Dependencies []Dependency           `json:"dependencies"`
	DataFlows    []DataFlowEdge         `json:"dataFlows"`
	DataFlowNote string                 `json:"dataFlowNote"`
	Metrics      MaintainabilityMetrics `json:"metrics"`
	Debt         TechnicalDebt          `json:"technicalDebt"`
	Warnings     []Warning              `json:"warnings"`
}
