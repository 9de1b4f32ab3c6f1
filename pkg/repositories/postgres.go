package repositories

import (
	"context"
	"fmt"

	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and applies the
// migrations. The caller is responsible for calling Close() on the
// repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	files, err := readMigrations(migrations)
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}

	for _, m := range files {
		if _, err := conn.Exec(ctx, m.sql); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.path, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveCheckpoint(ctx context.Context, checkpoint *models.Checkpoint) error {
	q := `
	INSERT INTO checkpoints (run_id, level, turn, timestamp, data) VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (run_id, level, turn) DO UPDATE SET timestamp = $4, data = $5;
	`
	_, err := r.conn.Exec(ctx, q, checkpoint.RunID, checkpoint.Level, checkpoint.Turn, checkpoint.Timestamp, checkpoint.Data)
	if err != nil {
		return fmt.Errorf("failed to insert checkpoint: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadLatestCheckpoint(ctx context.Context, runID uuid.UUID) (*models.Checkpoint, error) {
	q := `
	SELECT run_id, level, turn, timestamp, data FROM checkpoints
	WHERE run_id = $1
	ORDER BY level DESC, turn DESC
	LIMIT 1;
	`
	return scanPostgresCheckpoint(r.conn.QueryRow(ctx, q, runID))
}

func (r *PostgresRepository) LoadMostRecentCheckpoint(ctx context.Context) (*models.Checkpoint, error) {
	q := `
	SELECT run_id, level, turn, timestamp, data FROM checkpoints
	ORDER BY timestamp DESC, level DESC, turn DESC
	LIMIT 1;
	`
	return scanPostgresCheckpoint(r.conn.QueryRow(ctx, q))
}

func scanPostgresCheckpoint(row pgx.Row) (*models.Checkpoint, error) {
	checkpoint := &models.Checkpoint{}
	if err := row.Scan(&checkpoint.RunID, &checkpoint.Level, &checkpoint.Turn, &checkpoint.Timestamp, &checkpoint.Data); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan checkpoint: %v", err)
	}
	return checkpoint, nil
}

func (r *PostgresRepository) ListCheckpoints(ctx context.Context, runID uuid.UUID) ([]*models.Checkpoint, error) {
	q := `
	SELECT level, turn, timestamp FROM checkpoints
	WHERE run_id = $1
	ORDER BY level, turn;
	`
	rows, err := r.conn.Query(ctx, q, runID)
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
