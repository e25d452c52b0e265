package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/services"
	"github.com/taskhive/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{
		taskService: services.NewTaskService(db),
	}
}

// createTaskBody accepts both assigned_to and assigned_to_id for the
// assignee; clients historically send either. assigned_to_id wins when
// both are present.
type createTaskBody struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     int        `json:"priority" binding:"omitempty,min=1,max=3"`
	DueDate      *time.Time `json:"due_date"`
	ProjectID    uint       `json:"project_id" binding:"required"`
	AssignedToID *uint      `json:"assigned_to_id"`
	AssignedTo   *uint      `json:"assigned_to"`
}

type updateTaskBody struct {
	Title         string     `json:"title" binding:"omitempty,max=200"`
	Description   *string    `json:"description"`
	Status        string     `json:"status"`
	Priority      int        `json:"priority" binding:"omitempty,min=1,max=3"`
	DueDate       *time.Time `json:"due_date"`
	AssignedToID  *uint      `json:"assigned_to_id"`
	AssignedTo    *uint      `json:"assigned_to"`
	ClearAssignee bool       `json:"clear_assignee"`
	ClearDueDate  bool       `json:"clear_due_date"`
}

func normalizeAssignee(assignedToID, assignedTo *uint) *uint {
	if assignedToID != nil {
		return assignedToID
	}
	return assignedTo
}

// Create creates a task in a project
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var body createTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	req := services.CreateTaskRequest{
		Title:        body.Title,
		Description:  body.Description,
		Status:       body.Status,
		Priority:     body.Priority,
		DueDate:      body.DueDate,
		ProjectID:    body.ProjectID,
		AssignedToID: normalizeAssignee(body.AssignedToID, body.AssignedTo),
	}

	task, err := h.taskService.Create(middleware.GetActor(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, task)
}

// List returns paginated tasks across visible projects
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var req services.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taskService.List(middleware.GetActor(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a task
// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(middleware.GetActor(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, task)
}

// Update changes task fields
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body updateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	req := services.UpdateTaskRequest{
		Title:         body.Title,
		Description:   body.Description,
		Status:        body.Status,
		Priority:      body.Priority,
		DueDate:       body.DueDate,
		AssignedToID:  normalizeAssignee(body.AssignedToID, body.AssignedTo),
		ClearAssignee: body.ClearAssignee,
		ClearDueDate:  body.ClearDueDate,
	}

	task, err := h.taskService.Update(middleware.GetActor(c), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, task)
}

type updateStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves a task between board columns
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateStatus(middleware.GetActor(c), id, body.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, task)
}

// Delete removes a task and its comments
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(middleware.GetActor(c), id); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// Statistics summarizes visible tasks
// GET /api/tasks/statistics
func (h *TaskHandler) Statistics(c *gin.Context) {
	var projectID uint
	if raw := c.Query("project_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid project_id")
			return
		}
		projectID = uint(parsed)
	}

	stats, err := h.taskService.Statistics(middleware.GetActor(c), projectID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, stats)
}
