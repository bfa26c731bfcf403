package models

import "time"

// Category groups posts and carries the permission thresholds every action
// beneath it inherits. The two thresholds are independent: nothing forces
// the write rank to also satisfy the read rank.
type Category struct {
	ID                     Id         `json:"id" gorm:"primaryKey;size:36"`
	Title                  Title      `json:"title" gorm:"size:128;not null"`
	MinimumReadPermission  Permission `json:"minimum_read_permission" gorm:"size:16;not null"`
	MinimumWritePermission Permission `json:"minimum_write_permission" gorm:"size:16;not null"`
	Deleted                bool       `json:"deleted" gorm:"not null;default:false"`
	CreatedAt              time.Time  `json:"created_at"`
	EditedAt               *time.Time `json:"edited_at"`
}
