package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/dbx"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/models"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskInput is the client-supplied part of a task. Owner and id never come
// from the client.
type TaskInput struct {
	Title string
	Done  bool
}

// TaskService performs task operations on behalf of an authenticated identity.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns the caller's tasks. The owner filter is part of the query.
func (s *TaskService) List(ctx context.Context, id *auth.Identity) ([]*models.Task, error) {
	if id == nil {
		return nil, common.ErrorUnauthorized
	}

	items, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return items, nil
}

// Get returns the task with taskID if the caller owns it.
func (s *TaskService) Get(ctx context.Context, id *auth.Identity, taskID string) (*models.Task, error) {
	return s.load(ctx, s.db, id, taskID, AuthorizeRead)
}

// Create stores a new task owned by the caller.
func (s *TaskService) Create(ctx context.Context, id *auth.Identity, in TaskInput) (*models.Task, error) {
	if id == nil {
		return nil, common.ErrorUnauthorized
	}

	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}

	task := &models.Task{OwnerID: id.UserID, Title: title, Done: in.Done}
	task, err = s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// Update replaces title and done of a task the caller owns. The owner is
// kept as stored.
func (s *TaskService) Update(ctx context.Context, id *auth.Identity, taskID string, in TaskInput) (*models.Task, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}

	var updated *models.Task
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		task, err := s.load(ctx, tx, id, taskID, AuthorizeMutate)
		if err != nil {
			return err
		}

		task.Title = title
		task.Done = in.Done
		if err := s.repomanager.Tasks(tx).Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a task the caller owns.
func (s *TaskService) Delete(ctx context.Context, id *auth.Identity, taskID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		task, err := s.load(ctx, tx, id, taskID, AuthorizeMutate)
		if err != nil {
			return err
		}
		return s.repomanager.Tasks(tx).Delete(ctx, task.ID, task.OwnerID)
	})
}

// load fetches a task and applies authorize to it. Ids that are not UUIDs
// cannot exist and are reported as not found without a query.
func (s *TaskService) load(ctx context.Context, db dbx.DBTX, id *auth.Identity, taskID string,
	authorize func(*auth.Identity, *models.Task) error) (*models.Task, error) {
	if id == nil {
		return nil, common.ErrorUnauthorized
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, common.ErrorNotFound
	}

	task, err := s.repomanager.Tasks(db).Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(id, task); err != nil {
		return nil, err
	}
	return task, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		return "", common.NewValidationError("title", "title is required")
	case n > models.MaxTaskTitleLength:
		return "", common.NewValidationError("title",
			fmt.Sprintf("title must be at most %d characters", models.MaxTaskTitleLength))
	}
	return title, nil
}
