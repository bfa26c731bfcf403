package models

import "time"

// Post is a topic inside a category. The category reference is mutable, a
// post can be re-filed on edit; authorization always derives from whichever
// category the post currently sits in.
type Post struct {
	ID         Id         `json:"id" gorm:"primaryKey;size:36"`
	CategoryID Id         `json:"category_id" gorm:"size:36;index;not null"`
	CreatorID  Id         `json:"creator_id" gorm:"size:36;index;not null"`
	Title      Title      `json:"title" gorm:"size:128;not null"`
	Content    Content    `json:"content" gorm:"size:1024;not null"`
	Deleted    bool       `json:"deleted" gorm:"not null;default:false"`
	Locked     bool       `json:"locked" gorm:"not null;default:false"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at"`
}
