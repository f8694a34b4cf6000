package task

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
	"github.com/redmonkez12/taskmanager-api/internal/auth"
	"github.com/redmonkez12/taskmanager-api/internal/httputil"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
)

// Handler contains HTTP handlers for task endpoints. All of them run
// behind the auth middleware.
type Handler struct {
	service        *Service
	exposeInternal bool
}

func NewHandler(service *Service, exposeInternal bool) *Handler {
	return &Handler{service: service, exposeInternal: exposeInternal}
}

// CreateTaskRequest represents the task creation body
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Priority    string  `json:"priority" validate:"required,oneof=low medium high urgent"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitempty,isodate"`
}

// UpdateTaskRequest carries the fields to change. A null dueDate clears it.
type UpdateTaskRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      *string      `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done cancelled"`
	Priority    *string      `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     NullableDate `json:"dueDate" validate:"-" swaggertype:"string"`
}

// NullableDate tells an absent JSON field apart from an explicit null.
type NullableDate struct {
	Set   bool
	Value *string
}

func (d *NullableDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	if string(b) == "null" {
		d.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d.Value = &s
	return nil
}

// Create handles task creation
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTaskRequest true "Task"
// @Success      201 {object} httputil.Envelope{data=Task}
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      401 {object} httputil.Envelope "Access token required"
// @Failure      403 {object} httputil.Envelope "Invalid or expired token"
// @Router       /api/tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, logger, "task creation rejected", err)
		return
	}

	in := NewTask{
		Title:       req.Title,
		Description: req.Description,
		Priority:    Priority(req.Priority),
	}
	if req.DueDate != nil {
		due, err := httputil.ParseISODate(*req.DueDate)
		if err != nil {
			h.respondError(w, logger, "task creation rejected", invalidDueDate(err))
			return
		}
		in.DueDate = &due
	}

	created, err := h.service.Create(r.Context(), ownerID, in)
	if err != nil {
		h.respondError(w, logger, "task creation failed", err)
		return
	}

	logger.Info("task created", "user_id", ownerID, "task_id", created.ID)
	httputil.RespondSuccess(w, http.StatusCreated, created, "Task created successfully")
}

// List returns the caller's tasks
// @Summary      List tasks
// @Description  Newest first. When search is given, status, priority, limit and offset are ignored.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "Filter by status" Enums(todo, in_progress, done, cancelled)
// @Param        priority query string false "Filter by priority" Enums(low, medium, high, urgent)
// @Param        limit    query int    false "Maximum number of tasks"
// @Param        offset   query int    false "Number of tasks to skip"
// @Param        search   query string false "Case-insensitive substring of title or description"
// @Success      200 {object} httputil.Envelope{data=[]Task}
// @Failure      400 {object} httputil.Envelope "Invalid query parameter"
// @Router       /api/tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	var (
		tasks []*Task
		err   error
	)
	if query.Has("search") {
		tasks, err = h.service.Search(r.Context(), ownerID, query.Get("search"))
	} else {
		var f Filter
		f, err = parseFilter(query.Get("status"), query.Get("priority"), query.Get("limit"), query.Get("offset"))
		if err == nil {
			tasks, err = h.service.List(r.Context(), ownerID, f)
		}
	}
	if err != nil {
		h.respondError(w, logger, "task listing failed", err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, tasks, "")
}

// Stats returns per-status task counts
// @Summary      Task statistics
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope{data=Stats}
// @Router       /api/tasks/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), ownerID)
	if err != nil {
		h.respondError(w, logger, "task stats failed", err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, stats, "")
}

// Get returns one task
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} httputil.Envelope{data=Task}
// @Failure      400 {object} httputil.Envelope "Invalid task ID"
// @Failure      404 {object} httputil.Envelope "Task not found"
// @Router       /api/tasks/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	t, err := h.service.GetByID(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, logger, "get task failed", err)
		return
	}
	if t == nil {
		httputil.RespondErrorWithCode(w, "Task not found", apperror.NotFound.String(), http.StatusNotFound)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, t, "")
}

// Update changes some fields of a task
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int               true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} httputil.Envelope{data=Task}
// @Failure      400 {object} httputil.Envelope "Validation error or no fields"
// @Failure      404 {object} httputil.Envelope "Task not found or access denied"
// @Router       /api/tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, logger, "task update rejected", err)
		return
	}

	p := Patch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := Status(*req.Status)
		p.Status = &status
	}
	if req.Priority != nil {
		priority := Priority(*req.Priority)
		p.Priority = &priority
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			p.ClearDueDate = true
		} else {
			due, err := httputil.ParseISODate(*req.DueDate.Value)
			if err != nil {
				h.respondError(w, logger, "task update rejected", invalidDueDate(err))
				return
			}
			p.DueDate = &due
		}
	}

	updated, err := h.service.Update(r.Context(), id, ownerID, p)
	if err != nil {
		h.respondError(w, logger, "task update failed", err)
		return
	}

	logger.Info("task updated", "user_id", ownerID, "task_id", id)
	httputil.RespondSuccess(w, http.StatusOK, updated, "Task updated successfully")
}

// Delete removes a task
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Invalid task ID"
// @Failure      404 {object} httputil.Envelope "Task not found or access denied"
// @Router       /api/tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, ownerID); err != nil {
		h.respondError(w, logger, "task deletion failed", err)
		return
	}

	logger.Info("task deleted", "user_id", ownerID, "task_id", id)
	httputil.RespondSuccess(w, http.StatusOK, nil, "Task deleted successfully")
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Access token required", httputil.CodeMissingAuth, http.StatusUnauthorized)
	}
	return id, ok
}

func (h *Handler) respondError(w http.ResponseWriter, logger *logging.Logger, msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		logger.Error(msg, "error", err.Error())
	} else {
		logger.Warn(msg, "error", err.Error())
	}
	httputil.RespondError(w, err, h.exposeInternal)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondErrorWithCode(w, "Invalid task ID", httputil.CodeInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parseFilter(status, priority, limit, offset string) (Filter, error) {
	var f Filter

	if status != "" {
		s := Status(status)
		if !s.Valid() {
			return f, apperror.New(apperror.Validation, "Status must be one of: todo, in_progress, done, cancelled")
		}
		f.Status = &s
	}
	if priority != "" {
		p := Priority(priority)
		if !p.Valid() {
			return f, apperror.New(apperror.Validation, "Priority must be one of: low, medium, high, urgent")
		}
		f.Priority = &p
	}

	var err error
	if f.Limit, err = parseNonNegative("Limit", limit); err != nil {
		return f, err
	}
	if f.Offset, err = parseNonNegative("Offset", offset); err != nil {
		return f, err
	}

	return f, nil
}

func parseNonNegative(name, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, apperror.New(apperror.Validation, fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return &n, nil
}

func invalidDueDate(err error) error {
	return apperror.Wrap(apperror.Validation, "DueDate must be a valid ISO date string", err)
}
