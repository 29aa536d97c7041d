package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// JSONStore implements core.AuditStore with one JSON file per run under a
// directory. Writes are atomic (write-to-temp then rename) so a crashed
// process never leaves a torn record behind.
type JSONStore struct {
	dir string
	mu  sync.RWMutex
}

// NewJSONStore creates a JSON audit store rooted at dir.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) runPath(id core.RunID) string {
	return filepath.Join(s.dir, string(id)+".json")
}

// SaveRun persists a record atomically.
func (s *JSONStore) SaveRun(ctx context.Context, rec *core.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if err := renameio.WriteFile(s.runPath(rec.RunID), doc, 0o600); err != nil {
		return fmt.Errorf("writing run %s: %w", rec.RunID, err)
	}
	return nil
}

// LoadRun retrieves a record by run ID. Returns nil and no error when the
// run doesn't exist.
func (s *JSONStore) LoadRun(ctx context.Context, id core.RunID) (*core.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := os.ReadFile(s.runPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", id, err)
	}

	var rec core.AnalysisRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling run %s: %w", id, err)
	}
	return &rec, nil
}

// ListRuns returns summaries of all persisted runs, newest first.
func (s *JSONStore) ListRuns(ctx context.Context) ([]core.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading audit directory: %w", err)
	}

	var summaries []core.RunSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		var rec core.AnalysisRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			// A malformed file shouldn't hide the rest of the audit log.
			continue
		}
		summaries = append(summaries, core.RunSummary{
			RunID:      rec.RunID,
			Subject:    rec.Subject,
			Sector:     rec.Sector,
			Path:       rec.SelectedPath,
			RiskLevel:  rec.RiskLevel,
			Confidence: rec.Confidence,
			Truncated:  rec.Truncated,
			CreatedAt:  rec.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// DeleteRun removes a persisted run.
func (s *JSONStore) DeleteRun(ctx context.Context, id core.RunID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.runPath(id))
	if os.IsNotExist(err) {
		return core.ErrNotFound("run", string(id))
	}
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	return nil
}

// Verify that JSONStore implements core.AuditStore.
var _ core.AuditStore = (*JSONStore)(nil)
