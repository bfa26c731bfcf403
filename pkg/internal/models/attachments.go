package models

import "time"

// Attachment records an uploaded file. Immutable once created; the bytes
// live at Path inside the attachment filesystem.
type Attachment struct {
	ID        Id        `json:"id" gorm:"primaryKey;size:36"`
	CreatorID Id        `json:"creator_id" gorm:"size:36;index;not null"`
	Path      string    `json:"path" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
