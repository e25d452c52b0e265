package services

import (
	"errors"
	"time"

	"github.com/taskhive/backend/internal/models"
	"gorm.io/gorm"
)

// CommentService manages the threaded comments under tasks. Threads are
// stored flat with a nullable parent pointer and reassembled into trees
// on read; nesting depth is unbounded.
type CommentService struct {
	db     *gorm.DB
	access *AccessService
	tasks  *TaskService
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		db:     db,
		access: NewAccessService(db),
		tasks:  NewTaskService(db),
	}
}

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// CommentNode is one comment with its replies attached. Top-level nodes
// sort newest first, replies oldest first, so a thread reads like a
// conversation under each root.
type CommentNode struct {
	models.Comment
	ReplyCount int            `json:"reply_count"`
	Replies    []*CommentNode `json:"replies"`
}

// CommentStatistics summarizes a task's thread.
type CommentStatistics struct {
	Total        int64 `json:"total"`
	TopLevel     int64 `json:"top_level"`
	Replies      int64 `json:"replies"`
	Mine         int64 `json:"mine"`
	Last7Days    int64 `json:"last_7_days"`
	Today        int64 `json:"today"`
	Participants int64 `json:"participants"`
	Edited       int64 `json:"edited"`
}

// Create posts a comment on a task the actor may view. A reply must
// name a parent that exists on the same task; replying to a comment on
// a different task is rejected the same way as a missing parent.
func (s *CommentService) Create(actor Actor, taskID uint, req *CreateCommentRequest) (*models.Comment, error) {
	task, err := s.tasks.GetByID(actor, taskID)
	if err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		var parent models.Comment
		err := s.db.Where("id = ? AND task_id = ?", *req.ParentCommentID, task.ID).
			First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	comment := models.Comment{
		Content:         req.Content,
		TaskID:          task.ID,
		UserID:          actor.ID,
		ParentCommentID: req.ParentCommentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// GetByID returns a comment the actor may view, resolved through the
// owning task's project.
func (s *CommentService) GetByID(actor Actor, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Preload("User").Preload("Task").Preload("Task.Project").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if comment.Task == nil || comment.Task.Project == nil || !comment.Task.Project.IsActive {
		return nil, ErrNotFound
	}
	if !s.access.CanView(actor, comment.Task.ProjectID) {
		return nil, ErrNotFound
	}
	return &comment, nil
}

// Update edits a comment's content. Only the author and admins may
// edit. The edited flag sticks: once set it survives every later edit,
// including one restoring the original text.
func (s *CommentService) Update(actor Actor, id uint, content string) (*models.Comment, error) {
	comment, err := s.GetByID(actor, id)
	if err != nil {
		return nil, err
	}
	if !s.access.CanMutateComment(actor, comment) {
		return nil, ErrNotFound
	}

	// Bare model: comment carries preloaded associations that Updates
	// would otherwise re-save.
	err = s.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(map[string]interface{}{
		"content":   content,
		"is_edited": true,
	}).Error
	if err != nil {
		return nil, err
	}

	s.db.Preload("User").First(comment, comment.ID)
	return comment, nil
}

// Delete removes a comment with no direct replies. Only the author and
// admins may delete. The reply check and the delete run in one
// transaction, and the parent pointer carries a RESTRICT constraint, so
// a reply posted concurrently cannot be orphaned: either the reply
// loses its parent check or the delete fails.
func (s *CommentService) Delete(actor Actor, id uint) error {
	comment, err := s.GetByID(actor, id)
	if err != nil {
		return err
	}
	if !s.access.CanMutateComment(actor, comment) {
		return ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var replies int64
		if err := tx.Model(&models.Comment{}).
			Where("parent_comment_id = ?", comment.ID).
			Count(&replies).Error; err != nil {
			return err
		}
		if replies > 0 {
			return ErrHasReplies
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
}

// ListForTask loads the task's full thread as a forest. One query
// fetches every comment; the tree is rebuilt in memory from the parent
// pointers. A reply whose parent row is missing is dropped rather than
// promoted to top level.
func (s *CommentService) ListForTask(actor Actor, taskID uint) ([]*CommentNode, error) {
	if _, err := s.tasks.GetByID(actor, taskID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return buildThread(comments), nil
}

// buildThread assembles flat rows into nested nodes. Rows arrive in
// ascending creation order, which is already the order replies are
// shown in; top-level nodes are reversed to newest-first afterwards.
func buildThread(comments []models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{
			Comment: comments[i],
			Replies: []*CommentNode{},
		}
	}

	var roots []*CommentNode
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentCommentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*comments[i].ParentCommentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, node)
		parent.ReplyCount++
	}

	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots
}

// ListRecent returns the latest comments across every project the actor
// may see, newest first.
func (s *CommentService) ListRecent(actor Actor, limit int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	taskScope := s.db.Model(&models.Task{})
	if actor.IsAdmin() {
		taskScope = taskScope.Select("id").Where("project_id IN (?)",
			s.db.Model(&models.Project{}).Select("id").Where("is_active = ?", true))
	} else {
		taskScope = taskScope.Select("id").Where("project_id IN (?)", s.access.ProjectScope(actor))
	}

	var comments []models.Comment
	err := s.db.Preload("User").Preload("Task").
		Where("task_id IN (?)", taskScope).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Statistics summarizes one task's thread.
func (s *CommentService) Statistics(actor Actor, taskID uint) (*CommentStatistics, error) {
	if _, err := s.tasks.GetByID(actor, taskID); err != nil {
		return nil, err
	}

	stats := &CommentStatistics{}
	base := s.db.Model(&models.Comment{}).Where("task_id = ?", taskID)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	base.Session(&gorm.Session{}).Count(&stats.Total)
	base.Session(&gorm.Session{}).Where("parent_comment_id IS NULL").Count(&stats.TopLevel)
	stats.Replies = stats.Total - stats.TopLevel
	base.Session(&gorm.Session{}).Where("user_id = ?", actor.ID).Count(&stats.Mine)
	base.Session(&gorm.Session{}).Where("created_at >= ?", now.AddDate(0, 0, -7)).Count(&stats.Last7Days)
	base.Session(&gorm.Session{}).Where("created_at >= ?", startOfDay).Count(&stats.Today)
	base.Session(&gorm.Session{}).Where("is_edited = ?", true).Count(&stats.Edited)
	base.Session(&gorm.Session{}).Distinct("user_id").Count(&stats.Participants)

	return stats, nil
}
