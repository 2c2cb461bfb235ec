package model

import "time"

// Post represents a single blog post owned by a user.
type Post struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
