package models

import "time"

type Post struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"date" db:"created_at"`

	ImageKey *string `json:"-" db:"image_key"`
	ImageURL *string `json:"image,omitempty" db:"-"`

	Author   *User         `json:"uploaded_by,omitempty" db:"-"`
	Likes    int           `json:"likes" db:"-"`
	Comments []PostComment `json:"comments,omitempty" db:"-"`
}

type PostComment struct {
	ID        int       `json:"id" db:"id"`
	PostID    int       `json:"-" db:"post_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"date" db:"created_at"`

	Author *User `json:"user,omitempty" db:"-"`
}
