package models

import "time"

// Post is a blog entry. The author reference is immutable after creation;
// likes live in the post_likes join table.
type Post struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Title     string      `json:"title" gorm:"not null"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	Category  string      `json:"category"`
	ReadTime  string      `json:"read_time"`
	AuthorID  uint        `json:"author_id" gorm:"index;not null"`
	Author    User        `json:"-" gorm:"foreignKey:AuthorID"`
	Images    []PostImage `json:"images"`
	Tags      []PostTag   `json:"tags"`
	Hidden    bool        `json:"hidden" gorm:"default:false"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PostImage is one stored media reference attached to a post.
type PostImage struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	PostID uint   `json:"-" gorm:"index"`
	URL    string `json:"url" gorm:"type:text"`
}

// PostTag is one label attached to a post.
type PostTag struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	PostID uint   `json:"-" gorm:"index"`
	Name   string `json:"name" gorm:"size:30"`
}

// ImageURLs flattens the attached images for the denormalized view.
func (p *Post) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// TagNames flattens the attached tags for the denormalized view.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// CreatePostRequest defines the request body for creating or updating a post
type CreatePostRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=150"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"omitempty,max=50"`
	ReadTime string   `json:"readTime" validate:"omitempty,max=20"`
	Images   []string `json:"images" validate:"omitempty,dive,max=2048"`
	Tags     []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}
