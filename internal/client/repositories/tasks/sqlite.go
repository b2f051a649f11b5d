package tasks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/dmitrijs2005/taskpulse/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// ReplaceAll issues several statements; run it inside a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Task) error {
	if err := r.DeleteAll(ctx); err != nil {
		return err
	}

	query := `INSERT INTO tasks (id, title, description, completed, priority, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, t := range items {
		_, err := r.db.ExecContext(ctx, query,
			t.ID, t.Title, t.Description, t.Completed, t.Priority, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Task, error) {
	query := `SELECT id, title, description, completed, priority, created_at, updated_at
			FROM tasks ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	result := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	return nil
}
