package models

import "html/template"

// Post represents a blog post authored by the administrator. Date is stamped once
// at creation as a human-readable string and never changes on edit.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	AuthorID uint      `gorm:"index" json:"author_id"`
	Title    string    `gorm:"size:250;uniqueIndex;not null" json:"title"`
	Subtitle string    `gorm:"size:250;not null" json:"subtitle"`
	Date     string    `gorm:"size:250;not null" json:"date"`
	Body     string    `gorm:"type:text;not null" json:"body"`
	ImgURL   string    `gorm:"size:250;not null" json:"img_url"`
	Author   User      `json:"author"`
	Comments []Comment `json:"comments"`
}

// BodyHTML returns the sanitized rich-text body for unescaped template rendering.
// The body is cleaned with bluemonday before it is ever persisted.
func (p *Post) BodyHTML() template.HTML {
	return template.HTML(p.Body)
}
