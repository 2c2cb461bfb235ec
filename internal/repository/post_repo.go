package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository defines the interface for interacting with blog post rows.
// All lookups and mutations are scoped by the owning user.
type PostRepository interface {
	CreatePost(ctx context.Context, p *model.Post) error
	// GetPostByID retrieves a post by id if it is owned by the user.
	GetPostByID(ctx context.Context, ownerID, postID string) (*model.Post, error)
	ListPostsByOwner(ctx context.Context, ownerID string) ([]model.Post, error)
	// UpdatePost updates an owned post. Returns false when no owned row matched.
	UpdatePost(ctx context.Context, p *model.Post) (bool, error)
	// DeletePost removes an owned post. Returns false when no owned row matched.
	DeletePost(ctx context.Context, ownerID, postID string) (bool, error)
	CountPostsByOwner(ctx context.Context, ownerID string) (int, error)
}

type postRepo struct {
	pool *pgxpool.Pool
}

// NewPostRepo creates a new PostRepository.
func NewPostRepo(pool *pgxpool.Pool) PostRepository {
	return &postRepo{pool: pool}
}

// CreatePost inserts a new post and returns the created record via p.
func (r *postRepo) CreatePost(ctx context.Context, p *model.Post) error {
	const q = `
        INSERT INTO posts (user_id, title, content)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, title, content, created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q, p.OwnerID, p.Title, p.Content).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post for user %s: %w", p.OwnerID, err)
	}
	return nil
}

func (r *postRepo) GetPostByID(ctx context.Context, ownerID, postID string) (*model.Post, error) {
	const q = `
        SELECT id, user_id, title, content, created_at, updated_at
        FROM posts
        WHERE id = $1 AND user_id = $2
    `
	var p model.Post
	err := r.pool.QueryRow(ctx, q, postID, ownerID).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch post %s for user %s: %w", postID, ownerID, err)
	}
	return &p, nil
}

func (r *postRepo) ListPostsByOwner(ctx context.Context, ownerID string) ([]model.Post, error) {
	const q = `
        SELECT id, user_id, title, content, created_at, updated_at
        FROM posts
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list posts for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post row for user %s: %w", ownerID, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts for user %s: %w", ownerID, err)
	}

	// If no posts found, return an empty slice, not nil
	if len(posts) == 0 {
		return []model.Post{}, nil
	}
	return posts, nil
}

func (r *postRepo) UpdatePost(ctx context.Context, p *model.Post) (bool, error) {
	const q = `
        UPDATE posts
        SET title = $1, content = $2, updated_at = NOW()
        WHERE id = $3 AND user_id = $4
        RETURNING created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q, p.Title, p.Content, p.ID, p.OwnerID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("update post %s for user %s: %w", p.ID, p.OwnerID, err)
	}
	return true, nil
}

func (r *postRepo) DeletePost(ctx context.Context, ownerID, postID string) (bool, error) {
	const q = `DELETE FROM posts WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, postID, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete post %s for user %s: %w", postID, ownerID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postRepo) CountPostsByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `SELECT COUNT(*) FROM posts WHERE user_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, q, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts for user %s: %w", ownerID, err)
	}
	return count, nil
}
