// Package tasks provides the SQL repository for tasks. Every write is
// additionally constrained by owner_id, so a caller that skipped the
// ownership check still cannot touch another account's row.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/dbx"
	"github.com/dmitrijs2005/yeslist/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts task under a newly generated id.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (id, owner_id, title, done)
		 VALUES ($1, $2, $3, $4)
		 `

	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query, id, task.OwnerID, task.Title, task.Done); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	task.ID = id
	return task, nil
}

// ListByOwner returns the owner's tasks, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query :=
		`SELECT id, owner_id, title, done FROM tasks
		 WHERE owner_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Done); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Get loads a task by id regardless of owner; the caller decides access.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	query :=
		`SELECT id, owner_id, title, done FROM tasks
		 WHERE id = $1
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&task.ID, &task.OwnerID, &task.Title, &task.Done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// Update replaces title and done of the task with task.ID owned by task.OwnerID.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query :=
		`UPDATE tasks SET title = $1, done = $2
		 WHERE id = $3 AND owner_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, task.Title, task.Done, task.ID, task.OwnerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes the task with id owned by ownerID.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query :=
		`DELETE FROM tasks
		 WHERE id = $1 AND owner_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
