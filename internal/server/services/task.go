package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskpulse/internal/common"
	"github.com/dmitrijs2005/taskpulse/internal/dbx"
	"github.com/dmitrijs2005/taskpulse/internal/logging"
	"github.com/dmitrijs2005/taskpulse/internal/server/models"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskInput is the payload of a new task.
type TaskInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Completed   *bool   `json:"completed"`
}

// TaskService manages the tasks of an authenticated user. Every call is
// scoped by userID; tasks of other users behave as missing.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTaskService(m repomanager.RepositoryManager, log logging.Logger) *TaskService {
	if log == nil {
		log = logging.Nop{}
	}
	return &TaskService{repomanager: m, log: log}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	items, err := s.repomanager.Tasks(s.repomanager.Conn()).List(ctx, userID)
	if err != nil {
		return nil, s.storeError(ctx, "list tasks", err)
	}
	return items, nil
}

func (s *TaskService) Create(ctx context.Context, userID string, in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrValidation, priority)
	}

	task, err := s.repomanager.Tasks(s.repomanager.Conn()).Create(ctx, &models.Task{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
	})
	if err != nil {
		return nil, s.storeError(ctx, "create task", err)
	}
	return task, nil
}

// Update applies patch to the task inside one transaction.
func (s *TaskService) Update(ctx context.Context, userID, id string, patch TaskPatch) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrValidation)
	}
	if patch.Priority != nil && !models.ValidPriority(*patch.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrValidation, *patch.Priority)
	}

	var result *models.Task
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)
		task, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			task.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}

		result, err = repo.Update(ctx, task)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.storeError(ctx, "update task", err)
	}
	return result, nil
}

// Delete is idempotent: unknown ids succeed.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := s.repomanager.Tasks(s.repomanager.Conn()).Delete(ctx, userID, id); err != nil {
		return s.storeError(ctx, "delete task", err)
	}
	return nil
}

func (s *TaskService) storeError(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}
