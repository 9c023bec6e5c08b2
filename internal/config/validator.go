package config

import (
	"errors"
	"fmt"
	"runtime"

	archerrors "github.com/archlens/archlens/internal/errors"
)

// Validator validates configuration and fills in defaults for unset fields.
// Validation runs before any file I/O; a failure is a fatal ConfigError.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies defaults.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProject(&cfg.Project); err != nil {
		return archerrors.NewConfigError("project", "", err)
	}
	if err := v.validateDiscovery(&cfg.Discovery); err != nil {
		return archerrors.NewConfigError("discovery", "", err)
	}
	if err := v.validateDebt(&cfg.Debt); err != nil {
		return archerrors.NewConfigError("debt", "", err)
	}
	if err := v.validateAnalysis(&cfg.Analysis); err != nil {
		return archerrors.NewConfigError("analysis", "", err)
	}

	v.setDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateDiscovery(d *Discovery) error {
	if d.MaxFileSize < 0 {
		return fmt.Errorf("MaxFileSize cannot be negative, got %d", d.MaxFileSize)
	}
	if d.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", d.MaxFileSize)
	}
	return nil
}

func (v *Validator) validateDebt(d *Debt) error {
	if d.GodClassMethodThreshold < 0 {
		return fmt.Errorf("GodClassMethodThreshold cannot be negative, got %d", d.GodClassMethodThreshold)
	}
	if d.HighComplexityThreshold < 0 {
		return fmt.Errorf("HighComplexityThreshold cannot be negative, got %d", d.HighComplexityThreshold)
	}
	if d.MaxReportedItems < 0 {
		return fmt.Errorf("MaxReportedItems cannot be negative, got %d", d.MaxReportedItems)
	}
	if d.HourlyRate < 0 {
		return fmt.Errorf("HourlyRate cannot be negative, got %v", d.HourlyRate)
	}
	return nil
}

func (v *Validator) validateAnalysis(a *Analysis) error {
	if a.Workers < 0 {
		return fmt.Errorf("Workers cannot be negative, got %d", a.Workers)
	}
	if a.AnalysisTimeoutMs < 0 {
		return fmt.Errorf("AnalysisTimeoutMs cannot be negative, got %d", a.AnalysisTimeoutMs)
	}
	return nil
}

func (v *Validator) setDefaults(cfg *Config) {
	d := Default()

	if len(cfg.Discovery.IncludeGlobs) == 0 {
		cfg.Discovery.IncludeGlobs = d.Discovery.IncludeGlobs
	}
	if cfg.Discovery.MaxFileSize == 0 {
		cfg.Discovery.MaxFileSize = d.Discovery.MaxFileSize
	}
	if len(cfg.Naming.PresentationSuffixes) == 0 {
		cfg.Naming.PresentationSuffixes = d.Naming.PresentationSuffixes
	}
	if len(cfg.Naming.ServiceSuffixes) == 0 {
		cfg.Naming.ServiceSuffixes = d.Naming.ServiceSuffixes
	}
	if len(cfg.Naming.RepositorySuffixes) == 0 {
		cfg.Naming.RepositorySuffixes = d.Naming.RepositorySuffixes
	}
	if len(cfg.Naming.InfrastructureSuffixes) == 0 {
		cfg.Naming.InfrastructureSuffixes = d.Naming.InfrastructureSuffixes
	}
	if len(cfg.Naming.FrameworkPrefixes) == 0 {
		cfg.Naming.FrameworkPrefixes = d.Naming.FrameworkPrefixes
	}
	if cfg.Debt.GodClassMethodThreshold == 0 {
		cfg.Debt.GodClassMethodThreshold = d.Debt.GodClassMethodThreshold
	}
	if cfg.Debt.HighComplexityThreshold == 0 {
		cfg.Debt.HighComplexityThreshold = d.Debt.HighComplexityThreshold
	}
	if cfg.Debt.MaxReportedItems == 0 {
		cfg.Debt.MaxReportedItems = d.Debt.MaxReportedItems
	}
	if cfg.Debt.HourlyRate == 0 {
		cfg.Debt.HourlyRate = d.Debt.HourlyRate
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = runtime.NumCPU()
	}
}
