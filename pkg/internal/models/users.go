package models

import (
	"time"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/security"
)

// User is an account on the board. Rows are never removed; moderation flips
// the tombstone flag instead.
type User struct {
	ID         Id                      `json:"id" gorm:"primaryKey;size:36"`
	Username   Name                    `json:"username" gorm:"uniqueIndex;size:32;not null"`
	Nickname   *Name                   `json:"nickname" gorm:"size:32"`
	Password   security.HashedPassword `json:"-" gorm:"not null"`
	Permission Permission              `json:"permission" gorm:"size:16;not null"`
	AvatarID   *Id                     `json:"avatar_id" gorm:"size:36"`
	Deleted    bool                    `json:"deleted" gorm:"not null;default:false"`
	CreatedAt  time.Time               `json:"created_at"`
	EditedAt   *time.Time              `json:"edited_at"`
}
