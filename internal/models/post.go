// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Post statuses. Only Active posts are visible on public endpoints.
const (
	PostStatusActive   = "Active"
	PostStatusDraft    = "Draft"
	PostStatusDisabled = "Disabled"
)

// ValidPostStatus reports whether s is one of the known post statuses.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusActive, PostStatusDraft, PostStatusDisabled:
		return true
	}
	return false
}

// Category groups posts under a slugged title.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:100;not null" json:"title"`
	Image string `gorm:"size:255" json:"image"`
	Slug  string `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	// PostCount is computed at query time
	PostCount int `gorm:"->" json:"post_count"`
}

// BeforeSave derives the slug from the title when it is empty.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = Slugify(c.Title)
	}
	return nil
}

// Post is an authored article. View only ever grows.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ProfileID   *uint     `gorm:"index" json:"profile_id,omitempty"`
	Profile     *Profile  `gorm:"foreignKey:ProfileID;constraint:OnDelete:SET NULL" json:"profile,omitempty"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Image       string    `gorm:"size:255" json:"image"`
	Description string    `gorm:"type:text" json:"description"`
	Tags        string    `gorm:"size:255" json:"tags"`
	Status      string    `gorm:"size:20;not null;default:Active;index" json:"status"`
	View        uint64    `gorm:"not null;default:0" json:"view"`
	Slug        string    `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	CreatedAt   time.Time `json:"date"`
	UpdatedAt   time.Time `json:"updated_at"`

	Likes    []User    `gorm:"many2many:post_likes;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// BookmarksCount is not persisted; computed at query time
	BookmarksCount int `gorm:"->" json:"bookmarks_count"`
}

// BeforeCreate assigns a slug and the default status.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = UniqueSlug(p.Title)
	}
	if p.Status == "" {
		p.Status = PostStatusActive
	}
	return nil
}

// NormalizeTags trims, dedupes and rejoins a comma separated tag list.
func NormalizeTags(raw string) string {
	tags := lo.Map(strings.Split(raw, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	tags = lo.Uniq(lo.Compact(tags))
	return strings.Join(tags, ",")
}

// PostLike is the join row behind Post.Likes. (post_id, user_id) is the key,
// so a user can hold at most one like per post.
type PostLike struct {
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the join table name shared with the many2many tag.
func (PostLike) TableName() string {
	return "post_likes"
}
