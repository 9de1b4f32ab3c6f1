package repositories

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/cbodonnell/rewind/pkg/repositories/models"
	"github.com/google/uuid"
)

type Repository interface {
	Close(ctx context.Context) error
	// SaveCheckpoint stores a checkpoint, replacing any checkpoint of the
	// same run, level and turn.
	SaveCheckpoint(ctx context.Context, checkpoint *models.Checkpoint) error
	// LoadLatestCheckpoint returns the most recent checkpoint of a run.
	LoadLatestCheckpoint(ctx context.Context, runID uuid.UUID) (*models.Checkpoint, error)
	// LoadMostRecentCheckpoint returns the most recent checkpoint of any run.
	LoadMostRecentCheckpoint(ctx context.Context) (*models.Checkpoint, error)
	// ListCheckpoints lists the checkpoints of a run without their data,
	// oldest first.
	ListCheckpoints(ctx context.Context, runID uuid.UUID) ([]*models.Checkpoint, error)
}

// NewRepository opens the repository named by a database URL. sqlite://
// URLs name a database file, postgres:// and postgresql:// URLs a server.
// Migrations are read from the subdirectory of migrationsPath named after
// the driver.
func NewRepository(ctx context.Context, databaseURL string, migrationsPath string) (Repository, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %v", err)
	}

	switch u.Scheme {
	case "sqlite":
		path := u.Host + u.Path
		return NewSQLiteRepository(ctx, path, filepath.Join(migrationsPath, "sqlite"))
	case "postgres", "postgresql":
		return NewPostgresRepository(ctx, u.String(), filepath.Join(migrationsPath, "postgres"))
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}
