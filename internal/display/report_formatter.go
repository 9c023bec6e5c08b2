package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/archlens/archlens/internal/types"
)

// ReportFormatter renders an analysis report for display
type ReportFormatter struct {
	options FormatterOptions
}

// FormatterOptions controls report formatting
type FormatterOptions struct {
	Format       string // "text", "json", "compact"
	ShowEvidence bool   // Show per-pattern evidence lines
	ShowFlows    bool   // Show the data-flow section
	Indent       string // Indentation string
}

// NewReportFormatter creates a new report formatter
func NewReportFormatter(options FormatterOptions) *ReportFormatter {
	if options.Indent == "" {
		options.Indent = "  "
	}
	return &ReportFormatter{options: options}
}

// Format renders a report in the configured format
func (rf *ReportFormatter) Format(report *types.AnalysisReport) string {
	if report == nil {
		return "No report data available"
	}

	switch rf.options.Format {
	case "json":
		return rf.formatJSON(report)
	case "compact":
		return rf.formatCompact(report)
	default:
		return rf.formatText(report)
	}
}

func (rf *ReportFormatter) formatJSON(report *types.AnalysisReport) string {
	data, err := json.MarshalIndent(report, "", rf.options.Indent)
	if err != nil {
		return fmt.Sprintf("Error formatting JSON: %v", err)
	}
	return string(data)
}

// formatCompact emits one line per headline figure, for shell pipelines.
func (rf *ReportFormatter) formatCompact(report *types.AnalysisReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "classes=%d methods=%d score=%.2f rating=%s debt_items=%d debt_hours=%d warnings=%d\n",
		report.Metrics.TotalClasses,
		report.Metrics.TotalMethods,
		report.Metrics.MaintainabilityScore,
		report.Metrics.Rating,
		report.Debt.Summary.TotalItems,
		report.Debt.Summary.EstimatedHours,
		len(report.Warnings))
	return sb.String()
}

func (rf *ReportFormatter) formatText(report *types.AnalysisReport) string {
	var sb strings.Builder
	indent := rf.options.Indent

	fmt.Fprintf(&sb, "Architecture analysis of %s\n", report.RootPath)
	fmt.Fprintf(&sb, "Classes: %d | Methods: %d | Maintainability: %.2f (%s)\n\n",
		report.Metrics.TotalClasses, report.Metrics.TotalMethods,
		report.Metrics.MaintainabilityScore, report.Metrics.Rating)

	sb.WriteString("Layers\n")
	if len(report.Layers) == 0 {
		sb.WriteString(indent + "(none)\n")
	}
	for _, group := range report.Layers {
		fmt.Fprintf(&sb, "%s%s (%d)\n", indent, group.Layer, len(group.Classes))
		for _, class := range group.Classes {
			fmt.Fprintf(&sb, "%s%s%s  [%s]\n", indent, indent, class.Name, class.File)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("Patterns\n")
	for _, pattern := range report.Patterns {
		fmt.Fprintf(&sb, "%s%-22s %s\n", indent, pattern.Name, pattern.Confidence)
		if rf.options.ShowEvidence {
			for _, evidence := range pattern.Evidence {
				fmt.Fprintf(&sb, "%s%s- %s\n", indent, indent, evidence)
			}
			if len(pattern.ExternalSystems) > 0 {
				fmt.Fprintf(&sb, "%s%s- external systems: %s\n", indent, indent,
					strings.Join(pattern.ExternalSystems, ", "))
			}
		}
	}
	sb.WriteString("\n")

	if rf.options.ShowFlows && len(report.DataFlows) > 0 {
		sb.WriteString("Data flows\n")
		for _, flow := range report.DataFlows {
			line := fmt.Sprintf("%s%s -> %s (%s, %s)", indent, flow.From, flow.To, flow.LayerTransition, flow.Kind)
			if flow.ExternalSystem != "" {
				line += " via " + flow.ExternalSystem
			}
			sb.WriteString(line + "\n")
		}
		fmt.Fprintf(&sb, "%sNote: %s\n\n", indent, report.DataFlowNote)
	}

	sb.WriteString("Technical debt\n")
	if len(report.Debt.Items) == 0 {
		sb.WriteString(indent + "(none)\n")
	}
	for _, item := range report.Debt.Items {
		fmt.Fprintf(&sb, "%s[%s] %s (%dh)\n", indent, item.Severity, item.Description, item.EstimatedHours)
	}
	fmt.Fprintf(&sb, "%sTotal: %d item(s), %d hour(s), %s\n",
		indent, report.Debt.Summary.TotalItems, report.Debt.Summary.EstimatedHours,
		report.Debt.Summary.EstimatedValue)

	if len(report.Warnings) > 0 {
		sb.WriteString("\nWarnings\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&sb, "%s%s: %s\n", indent, warning.File, warning.Reason)
		}
	}

	return sb.String()
}
