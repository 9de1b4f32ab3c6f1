package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/rewind/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMigrations = "../../migrations"

func newTestSQLiteRepository(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rewind.db")
	repository, err := NewSQLiteRepository(ctx, path, filepath.Join(testMigrations, "sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(ctx) })
	return repository
}

func TestSQLiteRepository_Checkpoints(t *testing.T) {
	ctx := context.Background()
	repository := newTestSQLiteRepository(t)
	runID := uuid.New()
	otherRunID := uuid.New()

	_, err := repository.LoadLatestCheckpoint(ctx, runID)
	assert.True(t, IsNotFound(err))
	_, err = repository.LoadMostRecentCheckpoint(ctx)
	assert.True(t, IsNotFound(err))

	saves := []*models.Checkpoint{
		{RunID: runID, Level: 1, Turn: 1, Timestamp: 100, Data: []byte{1}},
		{RunID: runID, Level: 1, Turn: 2, Timestamp: 200, Data: []byte{2}},
		{RunID: runID, Level: 2, Turn: 1, Timestamp: 300, Data: []byte{3}},
		{RunID: otherRunID, Level: 1, Turn: 1, Timestamp: 400, Data: []byte{4}},
		// overwrites the first checkpoint of the run
		{RunID: runID, Level: 1, Turn: 1, Timestamp: 150, Data: []byte{5}},
	}
	for _, checkpoint := range saves {
		require.NoError(t, repository.SaveCheckpoint(ctx, checkpoint))
	}

	latest, err := repository.LoadLatestCheckpoint(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, saves[2], latest)

	recent, err := repository.LoadMostRecentCheckpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, saves[3], recent)

	list, err := repository.ListCheckpoints(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, []*models.Checkpoint{
		{RunID: runID, Level: 1, Turn: 1, Timestamp: 150},
		{RunID: runID, Level: 1, Turn: 2, Timestamp: 200},
		{RunID: runID, Level: 2, Turn: 1, Timestamp: 300},
	}, list)
}

func TestNewRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repository, err := NewRepository(ctx, "sqlite://"+filepath.Join(dir, "rewind.db"), testMigrations)
	require.NoError(t, err)
	require.NoError(t, repository.Close(ctx))

	_, err = os.Stat(filepath.Join(dir, "rewind.db"))
	assert.NoError(t, err)

	_, err = NewRepository(ctx, "mysql://localhost/rewind", testMigrations)
	assert.Error(t, err)

	_, err = NewSQLiteRepository(ctx, filepath.Join(dir, "other.db"), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestReadMigrations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_b.sql"), []byte("B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_a.sql"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("skip"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	migrations, err := readMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "A", migrations[0].sql)
	assert.Equal(t, "B", migrations[1].sql)
}
