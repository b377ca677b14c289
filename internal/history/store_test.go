// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mindmark/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() (Run, []types.FileResult) {
	run := Run{
		StartedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Mode:      "heading",
		Converted: 1,
		Failed:    1,
		Elapsed:   340 * time.Millisecond,
	}
	files := []types.FileResult{
		{
			Path:       "maps/plan.xmind",
			OutputPath: "maps/plan.md",
			Status:     types.StatusConverted,
			Duration:   120 * time.Millisecond,
		},
		{
			Path:      "maps/bad.xmind",
			Status:    types.StatusFailed,
			ErrorKind: "missing-payload",
			Error:     "maps/bad.xmind: archive has no content.json entry",
			Duration:  5 * time.Millisecond,
		},
	}
	return run, files
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, files := sampleRun()
	id, err := s.RecordRun(ctx, run, files)
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "heading", got.Mode)
	assert.Equal(t, 1, got.Converted)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, run.StartedAt, got.StartedAt)
	assert.Equal(t, 340*time.Millisecond, got.Elapsed)
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, files := sampleRun()
	var last int64
	for i := 0; i < 3; i++ {
		id, err := s.RecordRun(ctx, run, files)
		require.NoError(t, err)
		last = id
	}

	runs, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, last, runs[0].ID)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}

func TestFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, files := sampleRun()
	id, err := s.RecordRun(ctx, run, files)
	require.NoError(t, err)

	got, err := s.Files(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "maps/plan.xmind", got[0].Path)
	assert.Equal(t, types.StatusConverted, got[0].Status)
	assert.Equal(t, 120*time.Millisecond, got[0].Duration)

	assert.Equal(t, types.StatusFailed, got[1].Status)
	assert.Equal(t, "missing-payload", got[1].ErrorKind)
	assert.Empty(t, got[1].OutputPath)
}

func TestFilesUnknownRun(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Files(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, files := sampleRun()
	id, err := s.RecordRun(ctx, run, files)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	// Cascade removes the per-file rows too.
	got, err := s.Files(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	run, files := sampleRun()
	_, err = s.RecordRun(ctx, run, files)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
