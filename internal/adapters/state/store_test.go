package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

func sampleRecord(subject string, createdAt time.Time) *core.AnalysisRecord {
	rec := core.NewAnalysisRecord(subject, "We are 100% sustainable", "Energy")
	rec.CreatedAt = createdAt
	rec.SelectedPath = core.PathStandard
	rec.ComplexityScore = 0.5
	rec.RiskLevel = core.RiskHigh
	rec.Confidence = 0.54
	rec.AppendOutput(core.AgentOutput{
		StepID:     "risk_scoring",
		Summary:    "scored",
		Payload:    map[string]any{"risk_level": "HIGH", "risk_score": 84.75},
		Confidence: 0.85,
	})
	rec.AppendEvidence(core.Evidence{Source: "NGO Registry", Credibility: 0.9})
	return rec
}

func newStores(t *testing.T) map[string]core.AuditStore {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	jsonStore, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)

	return map[string]core.AuditStore{"sqlite": sqliteStore, "json": jsonStore}
}

func TestAuditStore_SaveAndLoadRoundTrip(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := sampleRecord("Acme Corp", time.Now().UTC().Truncate(time.Second))
			require.NoError(t, store.SaveRun(ctx, rec))

			loaded, err := store.LoadRun(ctx, rec.RunID)
			require.NoError(t, err)
			require.NotNil(t, loaded)

			assert.Equal(t, rec.RunID, loaded.RunID)
			assert.Equal(t, "Acme Corp", loaded.Subject)
			assert.Equal(t, core.RiskHigh, loaded.RiskLevel)
			assert.Equal(t, core.PathStandard, loaded.SelectedPath)
			require.Len(t, loaded.Outputs, 1)
			assert.Equal(t, "risk_scoring", loaded.Outputs[0].StepID)
			assert.Equal(t, "HIGH", loaded.Outputs[0].Payload["risk_level"])
			require.Len(t, loaded.Evidence, 1)
			assert.Equal(t, "NGO Registry", loaded.Evidence[0].Source)
		})
	}
}

func TestAuditStore_LoadMissingReturnsNil(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := store.LoadRun(context.Background(), "run-missing1")
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestAuditStore_SaveIsIdempotentPerRun(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := sampleRecord("Acme Corp", time.Now().UTC())
			require.NoError(t, store.SaveRun(ctx, rec))

			rec.RiskLevel = core.RiskLow
			require.NoError(t, store.SaveRun(ctx, rec))

			loaded, err := store.LoadRun(ctx, rec.RunID)
			require.NoError(t, err)
			assert.Equal(t, core.RiskLow, loaded.RiskLevel)

			summaries, err := store.ListRuns(ctx)
			require.NoError(t, err)
			assert.Len(t, summaries, 1)
		})
	}
}

func TestAuditStore_ListNewestFirst(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			older := sampleRecord("Older Co", time.Now().UTC().Add(-time.Hour))
			newer := sampleRecord("Newer Co", time.Now().UTC())
			require.NoError(t, store.SaveRun(ctx, older))
			require.NoError(t, store.SaveRun(ctx, newer))

			summaries, err := store.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, summaries, 2)
			assert.Equal(t, "Newer Co", summaries[0].Subject)
			assert.Equal(t, "Older Co", summaries[1].Subject)
		})
	}
}

func TestAuditStore_DeleteRun(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := sampleRecord("Acme Corp", time.Now().UTC())
			require.NoError(t, store.SaveRun(ctx, rec))
			require.NoError(t, store.DeleteRun(ctx, rec.RunID))

			loaded, err := store.LoadRun(ctx, rec.RunID)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			err = store.DeleteRun(ctx, rec.RunID)
			assert.True(t, core.IsCategory(err, core.ErrCatNotFound))
		})
	}
}

func TestNewAuditStore_Backends(t *testing.T) {
	dir := t.TempDir()

	store, err := NewAuditStore("sqlite", filepath.Join(dir, "audit"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, CloseStore(store))

	store, err = NewAuditStore("json", filepath.Join(dir, "runs"))
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, store)

	_, err = NewAuditStore("redis", "x")
	assert.Error(t, err)
}
