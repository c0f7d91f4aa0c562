package models

import "time"

// Comment is an anonymous comment on a post. Reply is set by the post's author.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Reply     string    `gorm:"type:text;not null;default:''" json:"reply"`
	CreatedAt time.Time `json:"date"`
}

// BookmarkType is the only label bookmarks carry today.
const BookmarkType = "Bookmark"

// Bookmark marks a post as saved by a user. At most one row per (user, post).
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_post" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_post;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Type      string    `gorm:"size:100;not null;default:Bookmark" json:"type"`
	CreatedAt time.Time `json:"date"`
}

// Notification types.
const (
	NotificationLike     = "Like"
	NotificationComment  = "Comment"
	NotificationBookmark = "Bookmark"
)

// Notification is an append-only record addressed to a post's author.
// Seen only moves from false to true.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notification_user_seen" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PostID    *uint     `gorm:"index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Type      string    `gorm:"size:100;not null" json:"type"`
	Seen      bool      `gorm:"not null;default:false;index:idx_notification_user_seen" json:"seen"`
	CreatedAt time.Time `json:"date"`
}

// DashboardStats is the per-author rollup returned by the stats endpoint.
type DashboardStats struct {
	Views     int64 `json:"views"`
	Posts     int64 `json:"posts"`
	Likes     int64 `json:"likes"`
	Bookmarks int64 `json:"bookmarks"`
}
