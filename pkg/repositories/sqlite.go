package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cbodonnell/rewind/pkg/repositories/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	files, err := readMigrations(migrations)
	if err != nil {
		db.Close()
		return nil, err
	}

	for _, m := range files {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.path, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveCheckpoint(ctx context.Context, checkpoint *models.Checkpoint) error {
	q := `
	INSERT OR REPLACE INTO checkpoints (run_id, level, turn, timestamp, data)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, checkpoint.RunID.String(), checkpoint.Level, checkpoint.Turn, checkpoint.Timestamp, checkpoint.Data)
	if err != nil {
		return fmt.Errorf("failed to insert checkpoint: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadLatestCheckpoint(ctx context.Context, runID uuid.UUID) (*models.Checkpoint, error) {
	q := `
	SELECT run_id, level, turn, timestamp, data FROM checkpoints
	WHERE run_id = ?
	ORDER BY level DESC, turn DESC
	LIMIT 1;
	`
	return r.scanCheckpoint(r.db.QueryRowContext(ctx, q, runID.String()))
}

func (r *SQLiteRepository) LoadMostRecentCheckpoint(ctx context.Context) (*models.Checkpoint, error) {
	q := `
	SELECT run_id, level, turn, timestamp, data FROM checkpoints
	ORDER BY timestamp DESC, level DESC, turn DESC
	LIMIT 1;
	`
	return r.scanCheckpoint(r.db.QueryRowContext(ctx, q))
}

func (r *SQLiteRepository) scanCheckpoint(row *sql.Row) (*models.Checkpoint, error) {
	var runID string
	checkpoint := &models.Checkpoint{}
	if err := row.Scan(&runID, &checkpoint.Level, &checkpoint.Turn, &checkpoint.Timestamp, &checkpoint.Data); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan checkpoint: %v", err)
	}

	parsed, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run id: %v", err)
	}
	checkpoint.RunID = parsed

	return checkpoint, nil
}

func (r *SQLiteRepository) ListCheckpoints(ctx context.Context, runID uuid.UUID) ([]*models.Checkpoint, error) {
	q := `
	SELECT level, turn, timestamp FROM checkpoints
	WHERE run_id = ?
	ORDER BY level, turn;
	`
	rows, err := r.db.QueryContext(ctx, q, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %v", err)
	}
	defer rows.Close()

	var checkpoints []*models.Checkpoint
	for rows.Next() {
		checkpoint := &models.Checkpoint{RunID: runID}
		if err := rows.Scan(&checkpoint.Level, &checkpoint.Turn, &checkpoint.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %v", err)
		}
		checkpoints = append(checkpoints, checkpoint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkpoints: %v", err)
	}

	return checkpoints, nil
}
