package services

import (
	"errors"

	"github.com/taskhive/backend/internal/models"
	"gorm.io/gorm"
)

// MembershipService is the source of truth for "who may act on project P".
// All methods are read-only. A missing or soft-deleted project yields
// false, never an error: absence of access and absence of existence are
// indistinguishable to callers.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// IsMember reports whether a membership row exists for (projectID, userID)
// on an active project.
func (s *MembershipService) IsMember(projectID, userID uint) bool {
	var project models.Project
	err := s.db.Where("id = ? AND is_active = ?", projectID, true).First(&project).Error
	if err != nil {
		return false
	}

	var count int64
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count)
	return count > 0
}

// IsCreatorOrMember reports whether userID is the project's creator or
// holds a membership row. Both checks are mandatory: the creator has no
// membership row, so a membership-only check would reject creators acting
// on their own projects. Member access additionally requires the member
// user to still be active.
func (s *MembershipService) IsCreatorOrMember(projectID, userID uint) bool {
	var project models.Project
	err := s.db.Where("id = ? AND is_active = ?", projectID, true).First(&project).Error
	if err != nil {
		return false
	}

	if project.CreatedByID == userID {
		return true
	}

	var member models.ProjectMember
	err = s.db.Preload("User").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		return false
	}

	return member.User != nil && member.User.IsActive
}

// ListMembers returns the membership rows for a project ordered by when
// they were added, with user and added-by details loaded.
func (s *MembershipService) ListMembers(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := s.db.Preload("User").Preload("AddedBy").
		Where("project_id = ?", projectID).
		Order("added_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
