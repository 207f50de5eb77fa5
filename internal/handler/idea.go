package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sakif/idea-board/internal/service"
)

// IdeaHandler serves the idea and task routes under /api.
//
// Every route here sits behind auth.RequireAuth, so the caller's user id is
// always on the context. The handler passes it to the services and never
// looks at ownership itself: a row that belongs to someone else comes back
// from the store as NotFound, exactly like a row that does not exist.
type IdeaHandler struct {
	ideas    *service.IdeaService
	tasks    *service.TaskService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewIdeaHandler(ideas *service.IdeaService, tasks *service.TaskService, logger *slog.Logger) *IdeaHandler {
	return &IdeaHandler{
		ideas:    ideas,
		tasks:    tasks,
		validate: newValidator(),
		logger:   logger,
	}
}

// Routes mounts the idea and task endpoints on r.
//
// GET    /ideas             → list caller's ideas
// POST   /ideas             → create idea
// GET    /ideas/{id}        → fetch one idea
// PATCH  /ideas/{id}        → partial update
// DELETE /ideas/{id}        → delete idea and its tasks
// GET    /ideas/{id}/tasks  → list tasks of an idea
// POST   /ideas/{id}/tasks  → create task
// PATCH  /tasks/{id}        → partial update
// DELETE /tasks/{id}        → delete task
func (h *IdeaHandler) Routes(r chi.Router) {
	r.Get("/ideas", h.HandleList)
	r.Post("/ideas", h.HandleCreate)
	r.Get("/ideas/{id}", h.HandleGet)
	r.Patch("/ideas/{id}", h.HandleUpdate)
	r.Delete("/ideas/{id}", h.HandleDelete)

	r.Get("/ideas/{id}/tasks", h.HandleListTasks)
	r.Post("/ideas/{id}/tasks", h.HandleCreateTask)
	r.Patch("/tasks/{id}", h.HandleUpdateTask)
	r.Delete("/tasks/{id}", h.HandleDeleteTask)
}

// CreateIdeaRequest is the body of POST /api/ideas.
type CreateIdeaRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description string  `json:"description" validate:"max=10000"`
	Status      string  `json:"status"`
	Rating      *int    `json:"rating"`
	Type        *string `json:"type"`
}

// UpdateIdeaRequest is the body of PATCH /api/ideas/{id}. Only the fields
// present in the JSON are changed; "type": null clears the type.
type UpdateIdeaRequest struct {
	Title       *string        `json:"title"       validate:"omitempty,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=10000"`
	Status      *string        `json:"status"`
	Rating      *int           `json:"rating"`
	Type        nullableString `json:"type"`
}

// HandleList returns the caller's ideas, newest first.
//
// HTTP: GET /api/ideas
func (h *IdeaHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.ideas.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

// HandleGet returns a single idea.
//
// HTTP: GET /api/ideas/{id}
func (h *IdeaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	idea, err := h.ideas.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

// HandleCreate creates an idea owned by the caller.
//
// HTTP: POST /api/ideas
// REQUEST BODY: {"title": "Solar backpack", "type": "Physical Product"}
// RESPONSE: 201 with the stored idea, including its defaults.
func (h *IdeaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateIdeaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid idea JSON", slog.String("error", err.Error()))
		badRequest(w, "body", "Invalid JSON body")
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	in := service.CreateIdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Rating:      req.Rating,
	}
	if req.Type != nil {
		in.Type = *req.Type
	}

	idea, err := h.ideas.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, idea)
}

// HandleUpdate applies a partial update.
//
// HTTP: PATCH /api/ideas/{id}
//
// An empty body and a body with no known fields are both 400; nothing is
// written in either case.
func (h *IdeaHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req UpdateIdeaRequest
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

	idea, err := h.ideas.Update(r.Context(), userID(r), id, service.UpdateIdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Rating:      req.Rating,
		Type:        req.Type.clearable(),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

// HandleDelete removes an idea. Its tasks go with it.
//
// HTTP: DELETE /api/ideas/{id}
// RESPONSE: 204 No Content
func (h *IdeaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.ideas.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
