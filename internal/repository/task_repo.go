package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-auth-tasks/internal/model"
)

// TaskRepository scopes every query to the owning user_id, so a task
// belonging to another user is indistinguishable from a missing one.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Title, t.Content).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID int64, taskID int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, userID int64, offset int, limit int) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM tasks WHERE user_id = $1
		 ORDER BY created_at DESC
		 OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $3, content = $4, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING updated_at`,
		t.ID, t.UserID, t.Title, t.Content).
		Scan(&t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID int64, taskID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}
