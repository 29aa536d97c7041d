package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "auto"},
		Pipeline: PipelineConfig{
			FastThreshold:     0.3,
			DeepThreshold:     0.7,
			StepTimeout:       "30s",
			RunTimeout:        "5m",
			MaxRevisions:      2,
			RevisionThreshold: 0.5,
		},
		Debate: DebateConfig{MaxRounds: 3, HighConflictRatio: 0.60},
		Store:  StoreConfig{Backend: "sqlite", Path: ".verity/audit.db"},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8787,
			ReadTimeout:  "15s",
			WriteTimeout: "60s",
		},
	}
}

func TestValidator_ValidConfig(t *testing.T) {
	if err := ValidateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidator_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "log.level") {
		t.Fatalf("expected log.level error, got: %v", err)
	}
}

func TestValidator_ThresholdOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.FastThreshold = 0.8
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "fast_threshold") {
		t.Fatalf("expected threshold ordering error, got: %v", err)
	}
}

func TestValidator_ThresholdRange(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.DeepThreshold = 1.5
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected error for threshold above 1")
	}

	cfg = validConfig()
	cfg.Pipeline.FastThreshold = -0.1
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected error for negative threshold")
	}
}

func TestValidator_Durations(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.StepTimeout = "thirty seconds"
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "step_timeout") {
		t.Fatalf("expected step_timeout error, got: %v", err)
	}
}

func TestValidator_MaxRevisions(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.MaxRevisions = 99
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected error for excessive max_revisions")
	}
}

func TestValidator_DebateRounds(t *testing.T) {
	cfg := validConfig()
	cfg.Debate.MaxRounds = 0
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "max_rounds") {
		t.Fatalf("expected max_rounds error, got: %v", err)
	}
}

func TestValidator_StoreBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "postgres"
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "store.backend") {
		t.Fatalf("expected store.backend error, got: %v", err)
	}
}

func TestValidator_ServerPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Fatalf("expected server.port error, got: %v", err)
	}
}

func TestValidator_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "bad"
	cfg.Store.Backend = "bad"
	cfg.Server.Port = -1

	v := NewValidator()
	if err := v.Validate(cfg); err == nil {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) < 3 {
		t.Fatalf("expected at least 3 errors, got %d", len(v.Errors()))
	}
}
