package repository

import (
	"context"

	"gorm.io/gorm"

	"hyperlocal/internal/model"
)

// PostRepository defines post persistence operations. Posts are append-only.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	CreateBatch(ctx context.Context, posts []model.Post) error
	ListByLocation(ctx context.Context, loc model.Location) ([]model.Post, error)
	CountByLocation(ctx context.Context, loc model.Location) (int64, error)
	// WithTransaction runs fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create appends a post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// CreateBatch appends posts in slice order.
func (r *postRepository) CreateBatch(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&posts).Error
}

// ListByLocation returns posts for the exact location key in creation order.
func (r *postRepository) ListByLocation(ctx context.Context, loc model.Location) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	if err := r.db.WithContext(ctx).
		Where("pin_code = ? AND area = ?", loc.PinCode, loc.Area).
		Order("id ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByLocation counts posts for the exact location key.
func (r *postRepository) CountByLocation(ctx context.Context, loc model.Location) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("pin_code = ? AND area = ?", loc.PinCode, loc.Area).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// WithTransaction executes a function within a database transaction.
func (r *postRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &postRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
