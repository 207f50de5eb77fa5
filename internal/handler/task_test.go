package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/idea-board/internal/model"
)

func createIdea(t *testing.T, api *testAPI, cookie *http.Cookie, title string) model.Idea {
	t.Helper()
	rr := api.do(t, http.MethodPost, "/api/ideas", cookie, map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[model.Idea](t, rr)
}

func TestTaskLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	_, cookie := api.login(t, "g-1", "a@example.com")
	idea := createIdea(t, api, cookie, "Garden sensor")
	tasksPath := fmt.Sprintf("/api/ideas/%d/tasks", idea.ID)

	rr := api.do(t, http.MethodPost, tasksPath, cookie, `{"name":"Order parts","due_date":"2024-06-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	task := decode[model.Task](t, rr)
	assert.Equal(t, idea.ID, task.IdeaID)
	assert.Equal(t, model.TaskStatusToDo, task.Status)
	require.NotNil(t, task.DueDate)

	rr = api.do(t, http.MethodGet, tasksPath, cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]model.Task](t, rr), 1)

	taskPath := fmt.Sprintf("/api/tasks/%d", task.ID)
	rr = api.do(t, http.MethodPatch, taskPath, cookie, `{"status":"done","due_date":null}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[model.Task](t, rr)
	assert.Equal(t, model.TaskStatusDone, updated.Status)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "Order parts", updated.Name)

	rr = api.do(t, http.MethodDelete, taskPath, cookie, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, tasksPath, cookie, nil)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestTaskCreate_Validation(t *testing.T) {
	api := newTestAPI(t, nil)
	_, cookie := api.login(t, "g-1", "a@example.com")
	idea := createIdea(t, api, cookie, "x")
	tasksPath := fmt.Sprintf("/api/ideas/%d/tasks", idea.ID)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, tasksPath, cookie, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, tasksPath, cookie, `{"name":"a","status":"Archived"}`).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/ideas/9999/tasks", cookie, `{"name":"a"}`).Code)
}

func TestTaskUpdate_CrossUserAndEmpty(t *testing.T) {
	api := newTestAPI(t, nil)
	_, alice := api.login(t, "g-a", "alice@example.com")
	_, bob := api.login(t, "g-b", "bob@example.com")
	idea := createIdea(t, api, alice, "x")

	rr := api.do(t, http.MethodPost, fmt.Sprintf("/api/ideas/%d/tasks", idea.ID), alice, `{"name":"secret"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	task := decode[model.Task](t, rr)
	taskPath := fmt.Sprintf("/api/tasks/%d", task.ID)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPatch, taskPath, alice, ``).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPatch, taskPath, alice, `{}`).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPatch, taskPath, bob, `{"name":"mine"}`).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, taskPath, bob, nil).Code)
}

func TestIdeaDelete_CascadesTasks(t *testing.T) {
	api := newTestAPI(t, nil)
	_, cookie := api.login(t, "g-1", "a@example.com")
	idea := createIdea(t, api, cookie, "doomed")

	rr := api.do(t, http.MethodPost, fmt.Sprintf("/api/ideas/%d/tasks", idea.ID), cookie, `{"name":"child"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	task := decode[model.Task](t, rr)

	require.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, fmt.Sprintf("/api/ideas/%d", idea.ID), cookie, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), cookie, `{"name":"orphan"}`).Code)
}
