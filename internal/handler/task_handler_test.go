package handler_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-tasks/internal/handler"
	"go-auth-tasks/internal/middleware"
	"go-auth-tasks/internal/model"
	"go-auth-tasks/internal/router"
	"go-auth-tasks/internal/service"
	"go-auth-tasks/internal/token"
)

type memoryTaskStore struct {
	nextID int64
	tasks  map[int64]model.Task
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{nextID: 1, tasks: map[int64]model.Task{}}
}

func (s *memoryTaskStore) Create(_ context.Context, t *model.Task) error {
	t.ID = s.nextID
	t.CreatedAt = time.Now().UTC().Add(time.Duration(s.nextID) * time.Second)
	t.UpdatedAt = t.CreatedAt
	s.nextID++
	s.tasks[t.ID] = *t
	return nil
}

func (s *memoryTaskStore) FindByID(_ context.Context, userID int64, taskID int64) (model.Task, error) {
	t, exists := s.tasks[taskID]
	if !exists || t.UserID != userID {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s *memoryTaskStore) List(_ context.Context, userID int64, offset int, limit int) ([]model.Task, error) {
	owned := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return []model.Task{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (s *memoryTaskStore) CountByUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, t := range s.tasks {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *memoryTaskStore) Update(_ context.Context, t *model.Task) error {
	existing, exists := s.tasks[t.ID]
	if !exists || existing.UserID != t.UserID {
		return model.ErrTaskNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	s.tasks[t.ID] = *t
	return nil
}

func (s *memoryTaskStore) Delete(_ context.Context, userID int64, taskID int64) error {
	t, exists := s.tasks[taskID]
	if !exists || t.UserID != userID {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

// newTasksServer starts the tasks service over an in-memory store and
// returns a token mint for arbitrary users, mimicking tokens issued by the
// auth service with the matching private key.
func newTasksServer(t *testing.T) (*httptest.Server, func(userID int64) string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	issuer := token.NewIssuer(key)
	verifier := token.NewVerifier(&key.PublicKey)
	taskService := service.NewTaskService(newMemoryTaskStore())

	mux := router.NewTasks(router.Options{
		CORSOrigins:    []string{"*"},
		RequestTimeout: 10 * time.Second,
		Metrics:        middleware.NewMetrics("tasks"),
		Health:         handler.NewHealthHandler("tasks-service", nil),
	}, middleware.NewAuthMiddleware(verifier), handler.NewTaskHandler(taskService))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mint := func(userID int64) string {
		signed, issueErr := issuer.Issue(fmt.Sprintf("user%d", userID), userID, token.TypeAccess, 30*time.Minute)
		require.NoError(t, issueErr)
		return signed
	}

	return server, mint
}

func doJSON(t *testing.T, method string, url string, payload any, bearerToken string) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func createTask(t *testing.T, server *httptest.Server, bearerToken string, title string) model.Task {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/tasks", model.CreateTaskRequest{Title: title, Content: "content"}, bearerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[model.Task](t, resp)
}

func TestTasksRequireAccessToken(t *testing.T) {
	server, _ := newTasksServer(t)

	resp, err := http.Get(server.URL + "/tasks")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskCRUDLifecycle(t *testing.T) {
	server, mint := newTasksServer(t)
	bearer := mint(1)

	created := createTask(t, server, bearer, "write report")
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, "write report", created.Title)

	getResp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/tasks/%d", server.URL, created.ID), nil, bearer)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	fetched := decodeBody[model.Task](t, getResp)
	assert.Equal(t, created.ID, fetched.ID)

	title := "write the report"
	updateResp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/tasks/%d", server.URL, created.ID), model.UpdateTaskRequest{Title: &title}, bearer)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)
	updated := decodeBody[model.Task](t, updateResp)
	assert.Equal(t, "write the report", updated.Title)
	assert.Equal(t, "content", updated.Content)

	deleteResp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/tasks/%d", server.URL, created.ID), nil, bearer)
	assert.Equal(t, http.StatusNoContent, deleteResp.StatusCode)

	missingResp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/tasks/%d", server.URL, created.ID), nil, bearer)
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
	assert.Equal(t, "NOT_FOUND", responseErrorCode(t, missingResp))
}

func TestTaskListPaginationEnvelope(t *testing.T) {
	server, mint := newTasksServer(t)
	bearer := mint(1)

	for i := 0; i < 15; i++ {
		createTask(t, server, bearer, fmt.Sprintf("task %d", i+1))
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/tasks?page=2&page_size=10", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody[model.TaskPage](t, resp)
	assert.Len(t, page.Tasks, 5)
	assert.Equal(t, 15, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 2, page.TotalPages)
}

func TestTasksAreIsolatedPerUser(t *testing.T) {
	server, mint := newTasksServer(t)
	alice := mint(1)
	bob := mint(2)

	created := createTask(t, server, alice, "alice's task")

	// Bob sees neither the task nor any trace of it.
	getResp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/tasks/%d", server.URL, created.ID), nil, bob)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)

	listResp := doJSON(t, http.MethodGet, server.URL+"/tasks", nil, bob)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	page := decodeBody[model.TaskPage](t, listResp)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 0, page.Total)

	deleteResp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/tasks/%d", server.URL, created.ID), nil, bob)
	assert.Equal(t, http.StatusNotFound, deleteResp.StatusCode)
}

func TestTaskCreateValidationErrors(t *testing.T) {
	server, mint := newTasksServer(t)
	bearer := mint(1)

	resp := doJSON(t, http.MethodPost, server.URL+"/tasks", model.CreateTaskRequest{Title: "", Content: "x"}, bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", responseErrorCode(t, resp))

	badID := doJSON(t, http.MethodGet, server.URL+"/tasks/abc", nil, bearer)
	assert.Equal(t, http.StatusBadRequest, badID.StatusCode)
}

func TestTasksMetricsEndpoint(t *testing.T) {
	server, mint := newTasksServer(t)
	bearer := mint(1)

	createTask(t, server, bearer, "counted")

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "tasks_requests_total")
}
