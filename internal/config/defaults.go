package config

// DefaultConfigYAML contains the default configuration YAML content.
// Used by `verity init` to seed a project config file.
const DefaultConfigYAML = `# Verity AI Configuration
#
# Values not specified here use sensible defaults.

# Run orchestration
pipeline:
  # Complexity routing: score < fast_threshold takes the fast path,
  # score >= deep_threshold takes the deep path, everything else standard.
  fast_threshold: 0.3
  deep_threshold: 0.7
  # Per-step and whole-run deadlines
  step_timeout: 30s
  run_timeout: 5m
  # Extra analysis passes when aggregate confidence is low
  max_revisions: 2
  revision_threshold: 0.5

# Consensus resolution (deep path)
debate:
  max_rounds: 3
  high_conflict_ratio: 0.60

# Audit log persistence
store:
  # Backend: sqlite | json
  backend: sqlite
  path: .verity/audit.db

# HTTP API (verity serve)
server:
  host: 127.0.0.1
  port: 8787
  cors_origins:
    - http://localhost:5173

log:
  level: info
  format: auto
`
