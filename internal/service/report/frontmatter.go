package report

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// frontmatter is the YAML header prepended to written report files so
// tooling can filter runs without parsing the markdown body.
type frontmatter struct {
	RunID      string    `yaml:"run_id"`
	Subject    string    `yaml:"subject"`
	Sector     string    `yaml:"sector,omitempty"`
	Path       string    `yaml:"path,omitempty"`
	RiskLevel  string    `yaml:"risk_level,omitempty"`
	Confidence float64   `yaml:"confidence"`
	Truncated  bool      `yaml:"truncated,omitempty"`
	Generated  time.Time `yaml:"generated"`
}

// renderFrontmatter serializes the record's run metadata between "---"
// delimiters, ready to prepend to the markdown report.
func renderFrontmatter(rec *core.AnalysisRecord) (string, error) {
	fm := frontmatter{
		RunID:      string(rec.RunID),
		Subject:    rec.Subject,
		Sector:     rec.Sector,
		Path:       string(rec.SelectedPath),
		Confidence: rec.Confidence,
		Truncated:  rec.Truncated,
		Generated:  time.Now().UTC(),
	}
	if rec.FinalVerdict != nil {
		fm.RiskLevel = string(rec.FinalVerdict.RiskLevel)
		fm.Confidence = rec.FinalVerdict.Confidence
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling report frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(data)
	sb.WriteString("---\n\n")
	return sb.String(), nil
}
