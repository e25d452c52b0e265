package models

import (
	"time"
)

// Comment belongs to exactly one task. ParentCommentID links a reply to
// another comment on the same task; the thread is stored flat and the
// display tree is reconstructed on read. The RESTRICT constraint on the
// reply relation blocks deleting a parent that still has replies, so a
// reply racing a delete loses at the storage layer rather than leaving
// an orphan.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	IsEdited        bool      `gorm:"default:false" json:"is_edited"`
	TaskID          uint      `gorm:"index;not null" json:"task_id"`
	Task            *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"`
	ParentComment   *Comment  `gorm:"foreignKey:ParentCommentID" json:"parent_comment,omitempty"`
	Replies         []Comment `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:RESTRICT" json:"replies,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
