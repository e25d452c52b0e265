package services

import (
	"errors"
	"time"

	"github.com/taskhive/backend/internal/models"
	"gorm.io/gorm"
)

// TaskService manages tasks inside projects. Every operation resolves
// the surrounding project through the actor's scope first, so tasks in
// projects the actor cannot see behave as if they do not exist.
type TaskService struct {
	db         *gorm.DB
	access     *AccessService
	membership *MembershipService
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{
		db:         db,
		access:     NewAccessService(db),
		membership: NewMembershipService(db),
	}
}

type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     int        `json:"priority" binding:"omitempty,min=1,max=3"`
	DueDate      *time.Time `json:"due_date"`
	ProjectID    uint       `json:"project_id" binding:"required"`
	AssignedToID *uint      `json:"assigned_to_id"`
}

type UpdateTaskRequest struct {
	Title        string     `json:"title" binding:"omitempty,max=200"`
	Description  *string    `json:"description"`
	Status       string     `json:"status"`
	Priority     int        `json:"priority" binding:"omitempty,min=1,max=3"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *uint      `json:"assigned_to_id"`
	// ClearAssignee unassigns the task. Needed because a nil
	// AssignedToID also means "field absent".
	ClearAssignee bool `json:"clear_assignee"`
	ClearDueDate  bool `json:"clear_due_date"`
}

type TaskListRequest struct {
	Page         int    `form:"page" binding:"min=0"`
	PageSize     int    `form:"page_size" binding:"min=0,max=100"`
	ProjectID    uint   `form:"project_id"`
	Status       string `form:"status"`
	AssignedToID uint   `form:"assigned_to_id"`
	Search       string `form:"search"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
}

type TaskListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Task `json:"items"`
}

// TaskStatistics summarizes the tasks visible to an actor.
type TaskStatistics struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByPriority     map[string]int64 `json:"by_priority"`
	Overdue        int64            `json:"overdue"`
	Unassigned     int64            `json:"unassigned"`
	AssignedToMe   int64            `json:"assigned_to_me"`
	CompletionRate float64          `json:"completion_rate"`
}

// sortColumns whitelists the columns a task listing may order by.
// Anything else falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"title":      "title",
	"status":     "status",
}

// validateAssignment checks that the prospective assignee is an active
// user who is the project's creator or one of its members. Assignment
// to outsiders is rejected even for admins.
func (s *TaskService) validateAssignment(projectID uint, assigneeID uint) error {
	var user models.User
	err := s.db.Where("id = ? AND is_active = ?", assigneeID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotAProjectMember
	}
	if err != nil {
		return err
	}

	if !s.membership.IsCreatorOrMember(projectID, assigneeID) {
		return ErrNotAProjectMember
	}
	return nil
}

// Create adds a task to a project the actor may view.
func (s *TaskService) Create(actor Actor, req *CreateTaskRequest) (*models.Task, error) {
	if _, err := s.access.findProjectFor(actor, req.ProjectID); err != nil {
		return nil, err
	}

	status := models.TaskStatusToDo
	if req.Status != "" {
		if !models.ValidTaskStatus(req.Status) {
			return nil, ErrInvalidStatus
		}
		status = models.TaskStatus(req.Status)
	}

	if req.AssignedToID != nil {
		if err := s.validateAssignment(req.ProjectID, *req.AssignedToID); err != nil {
			return nil, err
		}
	}

	priority := req.Priority
	if priority == 0 {
		priority = 1
	}

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      req.DueDate,
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
		CreatedByID:  actor.ID,
	}
	if status == models.TaskStatusDone {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Project").Preload("AssignedTo").Preload("CreatedBy").First(&task, task.ID)
	return &task, nil
}

// List returns paginated tasks across the projects the actor may see,
// optionally filtered and sorted.
func (s *TaskService) List(actor Actor, req *TaskListRequest) (*TaskListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Task{})
	if actor.IsAdmin() {
		query = query.Where("project_id IN (?)",
			s.db.Model(&models.Project{}).Select("id").Where("is_active = ?", true))
	} else {
		query = query.Where("project_id IN (?)", s.access.ProjectScope(actor))
	}

	if req.ProjectID != 0 {
		query = query.Where("project_id = ?", req.ProjectID)
	}
	if req.Status != "" {
		if !models.ValidTaskStatus(req.Status) {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.AssignedToID != 0 {
		query = query.Where("assigned_to_id = ?", req.AssignedToID)
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	column, ok := sortColumns[req.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if req.SortOrder == "asc" {
		direction = "ASC"
	}

	var tasks []models.Task
	offset := (req.Page - 1) * req.PageSize
	err := query.
		Preload("Project").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Offset(offset).Limit(req.PageSize).
		Order(column + " " + direction).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return &TaskListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    tasks,
	}, nil
}

// GetByID returns a task whose project the actor may view.
func (s *TaskService) GetByID(actor Actor, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.
		Preload("Project").
		Preload("AssignedTo").
		Preload("CreatedBy").
		First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Tasks inside soft-deleted projects are unreachable for everyone,
	// admins included.
	if task.Project == nil || !task.Project.IsActive {
		return nil, ErrNotFound
	}
	if !s.access.CanView(actor, task.ProjectID) {
		return nil, ErrNotFound
	}
	return &task, nil
}

// Update changes task fields. Any viewer of the project may update its
// tasks. Moving a task to done stamps completed_at; moving it away
// clears the stamp.
func (s *TaskService) Update(actor Actor, id uint, req *UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetByID(actor, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != 0 {
		updates["priority"] = req.Priority
	}
	if req.ClearDueDate {
		updates["due_date"] = nil
	} else if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if req.ClearAssignee {
		updates["assigned_to_id"] = nil
	} else if req.AssignedToID != nil {
		if err := s.validateAssignment(task.ProjectID, *req.AssignedToID); err != nil {
			return nil, err
		}
		updates["assigned_to_id"] = *req.AssignedToID
	}

	if req.Status != "" {
		if !models.ValidTaskStatus(req.Status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = req.Status
		if req.Status == string(models.TaskStatusDone) {
			if task.Status != models.TaskStatusDone {
				updates["completed_at"] = time.Now()
			}
		} else {
			updates["completed_at"] = nil
		}
	}

	if len(updates) > 0 {
		// Update through a bare model: task carries preloaded
		// associations, and Updates on it would re-save their foreign
		// keys over an explicit NULL in the map.
		err := s.db.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}

	s.db.Preload("Project").Preload("AssignedTo").Preload("CreatedBy").First(task, task.ID)
	return task, nil
}

// UpdateStatus is the single-field variant used by board views.
func (s *TaskService) UpdateStatus(actor Actor, id uint, status string) (*models.Task, error) {
	return s.Update(actor, id, &UpdateTaskRequest{Status: status})
}

// Delete removes a task and its comment thread. Members may create and
// update tasks but only the project creator and admins may delete them;
// for a member the task is visible, so this surfaces as forbidden
// rather than not found.
func (s *TaskService) Delete(actor Actor, id uint) error {
	task, err := s.GetByID(actor, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && task.Project.CreatedByID != actor.ID {
		return ErrTaskDeleteForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// Statistics aggregates the tasks visible to the actor, optionally
// narrowed to one project.
func (s *TaskService) Statistics(actor Actor, projectID uint) (*TaskStatistics, error) {
	if projectID != 0 {
		if _, err := s.access.findProjectFor(actor, projectID); err != nil {
			return nil, err
		}
	}

	base := func() *gorm.DB {
		query := s.db.Model(&models.Task{})
		if actor.IsAdmin() {
			query = query.Where("project_id IN (?)",
				s.db.Model(&models.Project{}).Select("id").Where("is_active = ?", true))
		} else {
			query = query.Where("project_id IN (?)", s.access.ProjectScope(actor))
		}
		if projectID != 0 {
			query = query.Where("project_id = ?", projectID)
		}
		return query
	}

	stats := &TaskStatistics{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	base().Count(&stats.Total)

	type statusRow struct {
		Status string
		Count  int64
	}
	var statusRows []statusRow
	base().Select("status, COUNT(*) as count").Group("status").Scan(&statusRows)
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	type priorityRow struct {
		Priority int
		Count    int64
	}
	var priorityRows []priorityRow
	base().Select("priority, COUNT(*) as count").Group("priority").Scan(&priorityRows)
	names := map[int]string{1: "low", 2: "medium", 3: "high"}
	for _, row := range priorityRows {
		name, ok := names[row.Priority]
		if !ok {
			continue
		}
		stats.ByPriority[name] = row.Count
	}

	base().
		Where("due_date IS NOT NULL AND due_date < ? AND status != ?", time.Now(), models.TaskStatusDone).
		Count(&stats.Overdue)
	base().Where("assigned_to_id IS NULL").Count(&stats.Unassigned)
	base().Where("assigned_to_id = ?", actor.ID).Count(&stats.AssignedToMe)

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.ByStatus[string(models.TaskStatusDone)]) / float64(stats.Total)
	}

	return stats, nil
}
