package models

import (
	"time"
)

type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:100;uniqueIndex;not null"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	DatePosted time.Time `json:"date_posted" gorm:"not null"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

// PostLike records that UsersID liked PostID. A pair appears at most once.
type PostLike struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	UsersID uint `json:"users_id" gorm:"column:users_id;not null;uniqueIndex:unique_user_post_like"`
	PostID  uint `json:"post_id" gorm:"not null;uniqueIndex:unique_user_post_like;index"`

	User User `json:"-" gorm:"foreignKey:UsersID"`
	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

func (PostLike) TableName() string {
	return "post_likes"
}
