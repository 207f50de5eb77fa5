package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/idea-board/internal/service"
)

// CreateTaskRequest is the body of POST /api/ideas/{id}/tasks.
type CreateTaskRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description" validate:"max=10000"`
	DueDate     *string `json:"due_date"    validate:"omitempty,max=64"`
	Status      string  `json:"status"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{id}. "due_date": null
// clears the due date.
type UpdateTaskRequest struct {
	Name        *string        `json:"name"        validate:"omitempty,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=10000"`
	DueDate     nullableString `json:"due_date"`
	Status      *string        `json:"status"`
}

// HandleListTasks returns the tasks of one of the caller's ideas.
//
// HTTP: GET /api/ideas/{id}/tasks
func (h *IdeaHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	ideaID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	tasks, err := h.tasks.List(r.Context(), userID(r), ideaID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleCreateTask adds a task to one of the caller's ideas.
//
// HTTP: POST /api/ideas/{id}/tasks
// REQUEST BODY: {"name": "Order parts", "due_date": "2024-06-01"}
func (h *IdeaHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	ideaID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid task JSON", slog.String("error", err.Error()))
		badRequest(w, "body", "Invalid JSON body")
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), userID(r), ideaID, service.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleUpdateTask applies a partial update to a task.
//
// HTTP: PATCH /api/tasks/{id}
func (h *IdeaHandler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if err == errEmptyBody {
			badRequest(w, "body", "no updatable fields supplied")
			return
		}
		badRequest(w, "body", "Invalid JSON body")
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), userID(r), id, service.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate.clearable(),
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleDeleteTask removes a task.
//
// HTTP: DELETE /api/tasks/{id}
func (h *IdeaHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
