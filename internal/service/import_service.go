package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hyperlocal/internal/cache"
	"hyperlocal/internal/model"
	"hyperlocal/internal/repository"
)

// ImportResult counts the outcome of a legacy import.
type ImportResult struct {
	UsersCreated int
	UsersSkipped int
	PostsCreated int
	PostsSkipped int
}

// ImportService copies legacy users and posts into the database.
type ImportService interface {
	Import(ctx context.Context, users []model.User, posts []model.Post) (ImportResult, error)
}

type importService struct {
	users repository.UserRepository
	posts repository.PostRepository
	cache *cache.Client
}

// NewImportService creates a new import service.
func NewImportService(users repository.UserRepository, posts repository.PostRepository, cache *cache.Client) ImportService {
	return &importService{users: users, posts: posts, cache: cache}
}

// postKey identifies a legacy post row. Two rows with the same author,
// content, location and second are the same post.
type postKey struct {
	author  string
	content string
	loc     model.Location
	unix    int64
}

func keyOf(p model.Post) postKey {
	return postKey{author: p.Author, content: p.Content, loc: p.Location(), unix: p.CreatedAt.Unix()}
}

// Import keeps stored password hashes as they are and skips users whose
// email already exists. Posts are appended in the given order, except rows
// already present, so running the same import again changes nothing.
func (s *importService) Import(ctx context.Context, users []model.User, posts []model.Post) (ImportResult, error) {
	var result ImportResult

	for i := range users {
		user := users[i]
		user.ID = 0
		if err := s.users.Create(ctx, &user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.UsersSkipped++
				continue
			}
			return result, storageErr("import user", err)
		}
		result.UsersCreated++
	}

	if len(posts) == 0 {
		return result, nil
	}

	existing := make(map[model.Location]map[postKey]struct{})
	batch := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		loc := p.Location()
		seen, ok := existing[loc]
		if !ok {
			stored, err := s.posts.ListByLocation(ctx, loc)
			if err != nil {
				return result, storageErr("list posts", err)
			}
			seen = make(map[postKey]struct{}, len(stored))
			for _, sp := range stored {
				seen[keyOf(sp)] = struct{}{}
			}
			existing[loc] = seen
		}
		if _, dup := seen[keyOf(p)]; dup {
			result.PostsSkipped++
			continue
		}
		p.ID = 0
		batch = append(batch, p)
	}

	if err := s.posts.CreateBatch(ctx, batch); err != nil {
		return result, storageErr("import posts", err)
	}
	result.PostsCreated = len(batch)

	invalidated := make(map[model.Location]struct{})
	for _, p := range batch {
		loc := p.Location()
		if _, ok := invalidated[loc]; ok {
			continue
		}
		invalidated[loc] = struct{}{}
		_ = s.cache.Delete(ctx, feedCacheKey(loc))
	}
	return result, nil
}
