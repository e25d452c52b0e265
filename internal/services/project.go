package services

import (
	"errors"

	"github.com/taskhive/backend/internal/models"
	"gorm.io/gorm"
)

// ProjectService orchestrates project creation, soft-delete and
// membership changes.
type ProjectService struct {
	db         *gorm.DB
	access     *AccessService
	membership *MembershipService
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		db:         db,
		access:     NewAccessService(db),
		membership: NewMembershipService(db),
	}
}

type ProjectListRequest struct {
	Page     int `form:"page" binding:"min=0"`
	PageSize int `form:"page_size" binding:"min=0,max=100"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

// Create creates a new project owned by the creator. The creator gets no
// membership row; their access is implicit.
func (s *ProjectService) Create(req *CreateProjectRequest, creatorID uint) (*models.Project, error) {
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedByID: creatorID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	s.db.Preload("CreatedBy").First(&project, project.ID)
	return &project, nil
}

// List returns paginated active projects visible to the actor: all of
// them for admins, otherwise only those the actor created or joined.
func (s *ProjectService) List(actor Actor, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Project{}).Where("is_active = ?", true)
	if !actor.IsAdmin() {
		query = query.Where("created_by_id = ? OR id IN (?)", actor.ID, s.access.memberProjects(actor.ID))
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	err := query.
		Preload("CreatedBy").
		Preload("Members").
		Preload("Members.User").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByID returns a project the actor may view, with members and tasks
// loaded. Access control happens inside the lookup, so a denied project
// is indistinguishable from a missing one.
func (s *ProjectService) GetByID(actor Actor, id uint) (*models.Project, error) {
	project, err := s.access.findProjectFor(actor, id)
	if err != nil {
		return nil, err
	}

	err = s.db.
		Preload("CreatedBy").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") }).
		Preload("Members.User").
		Preload("Members.AddedBy").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Tasks.AssignedTo").
		Preload("Tasks.CreatedBy").
		First(project, project.ID).Error
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Update changes project metadata. Restricted to the creator and admins.
func (s *ProjectService) Update(actor Actor, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	if !s.access.CanMutateProject(actor, id) {
		return nil, ErrNotFound
	}

	var project models.Project
	if err := s.db.Where("id = ? AND is_active = ?", id, true).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.db.Preload("CreatedBy").First(&project, project.ID)
	return &project, nil
}

// SoftDelete marks the project inactive. Tasks, comments and membership
// rows are left in place; they simply become unreachable through normal
// queries.
func (s *ProjectService) SoftDelete(actor Actor, id uint) error {
	if !s.access.CanMutateProject(actor, id) {
		return ErrNotFound
	}

	result := s.db.Model(&models.Project{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember grants a user membership. Restricted to the creator and
// admins; the candidate must exist and be active. The existence check
// and the insert are separate statements, so two concurrent adds can
// both pass the check; the (project_id, user_id) unique index decides
// the race and the loser surfaces as ErrAlreadyMember.
func (s *ProjectService) AddMember(actor Actor, projectID, userID uint) (*models.ProjectMember, error) {
	if !s.access.CanMutateProject(actor, projectID) {
		return nil, ErrNotFound
	}

	var user models.User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var count int64
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count)
	if count > 0 {
		return nil, ErrAlreadyMember
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		AddedByID: actor.ID,
	}
	if err := s.db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	s.db.Preload("User").Preload("AddedBy").First(&member, member.ID)
	return &member, nil
}

// RemoveMember revokes a user's membership. Restricted to the creator
// and admins. Tasks already assigned to the removed user keep their
// assignee; assignment is validated only at write time.
func (s *ProjectService) RemoveMember(actor Actor, projectID, userID uint) error {
	if !s.access.CanMutateProject(actor, projectID) {
		return ErrNotFound
	}

	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotAMember
	}
	if err != nil {
		return err
	}

	return s.db.Delete(&member).Error
}

// ListMembers returns the project's membership rows. Any viewer may
// list members.
func (s *ProjectService) ListMembers(actor Actor, projectID uint) ([]models.ProjectMember, error) {
	if _, err := s.access.findProjectFor(actor, projectID); err != nil {
		return nil, err
	}
	return s.membership.ListMembers(projectID)
}
