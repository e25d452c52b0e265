package models

import (
	"time"
)

// ProjectMember grants a user access to a project. The creator never has
// a membership row; their access is implicit. The (project_id, user_id)
// unique index is the real guard against duplicate adds racing past the
// service-level existence check.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AddedByID uint      `json:"added_by_id"`
	AddedBy   *User     `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
