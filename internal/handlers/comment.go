package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/services"
	"github.com/taskhive/backend/pkg/response"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{
		commentService: services.NewCommentService(db),
	}
}

// Create posts a comment or reply on a task
// POST /api/tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(middleware.GetActor(c), taskID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, comment)
}

// ListForTask returns a task's comment thread as a tree
// GET /api/tasks/:id/comments
func (h *CommentHandler) ListForTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	thread, err := h.commentService.ListForTask(middleware.GetActor(c), taskID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, thread)
}

// Statistics summarizes a task's thread
// GET /api/tasks/:id/comments/statistics
func (h *CommentHandler) Statistics(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.commentService.Statistics(middleware.GetActor(c), taskID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, stats)
}

type updateCommentBody struct {
	Content string `json:"content" binding:"required"`
}

// Update edits a comment's content
// PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body updateCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Update(middleware.GetActor(c), id, body.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, comment)
}

// Delete removes a reply-free comment
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(middleware.GetActor(c), id); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ListRecent returns the newest comments across visible projects
// GET /api/comments/recent
func (h *CommentHandler) ListRecent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	comments, err := h.commentService.ListRecent(middleware.GetActor(c), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, comments)
}
