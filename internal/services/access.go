package services

import (
	"errors"

	"github.com/taskhive/backend/internal/models"
	"gorm.io/gorm"
)

// AccessService turns (actor, resource) into allow/deny decisions.
//
// Rule table:
//
//	admin:   view always, mutate project always, mutate any comment
//	creator: view, mutate project metadata, mutate tasks, own comments
//	member:  view, mutate tasks, own comments; NOT project metadata
//	other:   nothing
type AccessService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{
		db:         db,
		membership: NewMembershipService(db),
	}
}

// CanView reports whether the actor may see the project and its tasks
// and comments.
func (s *AccessService) CanView(actor Actor, projectID uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return s.membership.IsCreatorOrMember(projectID, actor.ID)
}

// CanMutateProject reports whether the actor may change project metadata:
// rename, soft-delete, member add/remove. Restricted to the creator and
// admins; ordinary members may not touch project metadata.
func (s *AccessService) CanMutateProject(actor Actor, projectID uint) bool {
	if actor.IsAdmin() {
		return true
	}

	var project models.Project
	err := s.db.Where("id = ? AND is_active = ? AND created_by_id = ?", projectID, true, actor.ID).
		First(&project).Error
	return err == nil
}

// CanMutateComment reports whether the actor may edit or delete the
// comment. Authors own their comments; admins override.
func (s *AccessService) CanMutateComment(actor Actor, comment *models.Comment) bool {
	if actor.IsAdmin() {
		return true
	}
	return comment.UserID == actor.ID
}

// memberProjects selects the project ids the user holds a membership
// row in, provided the user is still active. Deactivation suspends the
// membership without deleting the row.
func (s *AccessService) memberProjects(userID uint) *gorm.DB {
	return s.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID).
		Where("user_id IN (?)",
			s.db.Model(&models.User{}).Select("id").Where("is_active = ?", true))
}

// ProjectScope returns a subquery selecting the ids of active projects
// the actor may see. Folding this into lookups is what makes "not found"
// and "forbidden" indistinguishable. Admin callers should branch before
// using it; the scope never applies to them.
func (s *AccessService) ProjectScope(actor Actor) *gorm.DB {
	return s.db.Model(&models.Project{}).
		Select("id").
		Where("is_active = ?", true).
		Where("created_by_id = ? OR id IN (?)", actor.ID, s.memberProjects(actor.ID))
}

// findProjectFor resolves the active project an actor may view, or
// ErrNotFound. Shared by the services that need the row itself.
func (s *AccessService) findProjectFor(actor Actor, projectID uint) (*models.Project, error) {
	query := s.db.Where("id = ? AND is_active = ?", projectID, true)
	if !actor.IsAdmin() {
		query = query.Where("created_by_id = ? OR id IN (?)", actor.ID, s.memberProjects(actor.ID))
	}

	var project models.Project
	if err := query.First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}
