package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validatePipeline(&cfg.Pipeline)
	v.validateDebate(&cfg.Debate)
	v.validateStore(&cfg.Store)
	v.validateServer(&cfg.Server)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}

	if cfg.File != "" && !isValidPath(cfg.File) {
		v.addError("log.file", cfg.File, "invalid file path")
	}
}

func (v *Validator) validatePipeline(cfg *PipelineConfig) {
	if cfg.FastThreshold < 0 || cfg.FastThreshold > 1 {
		v.addError("pipeline.fast_threshold", cfg.FastThreshold, "must be between 0 and 1")
	}
	if cfg.DeepThreshold < 0 || cfg.DeepThreshold > 1 {
		v.addError("pipeline.deep_threshold", cfg.DeepThreshold, "must be between 0 and 1")
	}
	if cfg.FastThreshold >= cfg.DeepThreshold {
		v.addError("pipeline.fast_threshold", cfg.FastThreshold,
			"must be below pipeline.deep_threshold")
	}

	if _, err := time.ParseDuration(cfg.StepTimeout); err != nil {
		v.addError("pipeline.step_timeout", cfg.StepTimeout, "invalid duration format")
	}
	if _, err := time.ParseDuration(cfg.RunTimeout); err != nil {
		v.addError("pipeline.run_timeout", cfg.RunTimeout, "invalid duration format")
	}

	if cfg.MaxRevisions < 0 || cfg.MaxRevisions > 10 {
		v.addError("pipeline.max_revisions", cfg.MaxRevisions, "must be between 0 and 10")
	}
	if cfg.RevisionThreshold < 0 || cfg.RevisionThreshold > 1 {
		v.addError("pipeline.revision_threshold", cfg.RevisionThreshold, "must be between 0 and 1")
	}
}

func (v *Validator) validateDebate(cfg *DebateConfig) {
	if cfg.MaxRounds < 1 || cfg.MaxRounds > 10 {
		v.addError("debate.max_rounds", cfg.MaxRounds, "must be between 1 and 10")
	}
	if cfg.HighConflictRatio < 0 || cfg.HighConflictRatio > 1 {
		v.addError("debate.high_conflict_ratio", cfg.HighConflictRatio, "must be between 0 and 1")
	}
}

func (v *Validator) validateStore(cfg *StoreConfig) {
	validBackends := map[string]bool{
		"sqlite": true, "json": true,
	}
	if !validBackends[cfg.Backend] {
		v.addError("store.backend", cfg.Backend, "must be one of: sqlite, json")
	}

	if cfg.Path == "" {
		v.addError("store.path", cfg.Path, "path required")
	}
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		v.addError("server.port", cfg.Port, "must be between 1 and 65535")
	}
	if cfg.Host == "" {
		v.addError("server.host", cfg.Host, "host required")
	}

	if _, err := time.ParseDuration(cfg.ReadTimeout); err != nil {
		v.addError("server.read_timeout", cfg.ReadTimeout, "invalid duration format")
	}
	if _, err := time.ParseDuration(cfg.WriteTimeout); err != nil {
		v.addError("server.write_timeout", cfg.WriteTimeout, "invalid duration format")
	}
}

func isValidPath(path string) bool {
	dir := filepath.Dir(path)
	_, err := os.Stat(dir)
	return err == nil || os.IsNotExist(err)
}

// ValidateConfig is a convenience function that creates a validator and validates config.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
