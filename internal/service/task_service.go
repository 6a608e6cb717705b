package service

import (
	"context"
	"net/http"
	"strings"

	"go-auth-tasks/internal/model"
	"go-auth-tasks/pkg/apierror"
)

const (
	maxTitleLength  = 200
	defaultPageSize = 10
	maxPageSize     = 100
)

// TaskStore is the slice of the task repository the service needs. Every
// method takes the owning user id; the store never returns another user's
// rows.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, userID int64, taskID int64) (model.Task, error)
	List(ctx context.Context, userID int64, offset int, limit int) ([]model.Task, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, userID int64, taskID int64) error
}

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, userID int64, req model.CreateTaskRequest) (model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return model.Task{}, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return model.Task{}, apierror.New("BAD_REQUEST", "content is required", "content", http.StatusBadRequest)
	}

	task := model.Task{UserID: userID, Title: title, Content: req.Content}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return model.Task{}, err
	}

	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID int64, taskID int64) (model.Task, error) {
	return s.tasks.FindByID(ctx, userID, taskID)
}

func (s *TaskService) List(ctx context.Context, userID int64, page int, pageSize int) (model.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := s.tasks.CountByUser(ctx, userID)
	if err != nil {
		return model.TaskPage{}, err
	}

	tasks, err := s.tasks.List(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return model.TaskPage{}, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return model.TaskPage{
		Tasks:      tasks,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *TaskService) Update(ctx context.Context, userID int64, taskID int64, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return model.Task{}, err
		}
		task.Title = title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return model.Task{}, apierror.New("BAD_REQUEST", "content cannot be empty", "content", http.StatusBadRequest)
		}
		task.Content = *req.Content
	}

	if err := s.tasks.Update(ctx, &task); err != nil {
		return model.Task{}, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID int64, taskID int64) error {
	return s.tasks.Delete(ctx, userID, taskID)
}

func validateTitle(title string) error {
	if title == "" {
		return apierror.New("BAD_REQUEST", "title is required", "title", http.StatusBadRequest)
	}
	if len(title) > maxTitleLength {
		return apierror.New("BAD_REQUEST", "title is too long", "title", http.StatusBadRequest)
	}
	return nil
}
