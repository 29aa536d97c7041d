package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Debate   DebateConfig   `mapstructure:"debate"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// PipelineConfig configures run orchestration.
type PipelineConfig struct {
	// FastThreshold and DeepThreshold partition the complexity score
	// into the three execution paths. Scores below FastThreshold take
	// the fast path; scores at or above DeepThreshold take the deep path.
	FastThreshold float64 `mapstructure:"fast_threshold"`
	DeepThreshold float64 `mapstructure:"deep_threshold"`

	StepTimeout string `mapstructure:"step_timeout"`
	RunTimeout  string `mapstructure:"run_timeout"`

	// MaxRevisions caps how many extra analysis passes the confidence
	// monitor may request for a single run.
	MaxRevisions int `mapstructure:"max_revisions"`

	// RevisionThreshold is the aggregate confidence below which the
	// monitor requests another pass.
	RevisionThreshold float64 `mapstructure:"revision_threshold"`
}

// StepTimeoutDuration parses the per-step timeout, falling back to 30s.
func (c PipelineConfig) StepTimeoutDuration() time.Duration {
	return parseDurationOr(c.StepTimeout, 30*time.Second)
}

// RunTimeoutDuration parses the whole-run deadline, falling back to 5m.
func (c PipelineConfig) RunTimeoutDuration() time.Duration {
	return parseDurationOr(c.RunTimeout, 5*time.Minute)
}

// DebateConfig configures consensus resolution.
type DebateConfig struct {
	// MaxRounds caps debate rounds before forced voting.
	MaxRounds int `mapstructure:"max_rounds"`

	// HighConflictRatio is the conflict ratio at or above which the
	// consensus confidence is discounted.
	HighConflictRatio float64 `mapstructure:"high_conflict_ratio"`
}

// StoreConfig configures audit log persistence.
type StoreConfig struct {
	// Backend selects the store implementation: sqlite or json.
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	ReadTimeout  string   `mapstructure:"read_timeout"`
	WriteTimeout string   `mapstructure:"write_timeout"`
}

// ReadTimeoutDuration parses the server read timeout, falling back to 15s.
func (c ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDurationOr(c.ReadTimeout, 15*time.Second)
}

// WriteTimeoutDuration parses the server write timeout, falling back to 60s.
func (c ServerConfig) WriteTimeoutDuration() time.Duration {
	return parseDurationOr(c.WriteTimeout, 60*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
