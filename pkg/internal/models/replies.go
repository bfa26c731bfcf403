package models

import "time"

// Reply hangs off a post; its authorization derives from the parent post's
// category exactly as for the post itself.
type Reply struct {
	ID        Id         `json:"id" gorm:"primaryKey;size:36"`
	PostID    Id         `json:"post_id" gorm:"size:36;index;not null"`
	CreatorID Id         `json:"creator_id" gorm:"size:36;index;not null"`
	Content   Content    `json:"content" gorm:"size:1024;not null"`
	Deleted   bool       `json:"deleted" gorm:"not null;default:false"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at"`
}
