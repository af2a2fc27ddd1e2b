package models

// Comment represents a reader reply attached to a post.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"index;not null" json:"post_id"`
	AuthorID uint   `gorm:"index;not null" json:"author_id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Author   User   `json:"author"`
}
