package dto

import "time"

// PostCreateDTO is used for incoming blog creation requests
type PostCreateDTO struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// PostUpdateDTO is used for incoming blog update requests
type PostUpdateDTO struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// PostResponseDTO is returned in API responses for blogs
type PostResponseDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
