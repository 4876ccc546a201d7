package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hyperlocal/internal/cache"
	apperrors "hyperlocal/internal/errors"
	"hyperlocal/internal/model"
	"hyperlocal/internal/repository"
)

const feedCacheTTL = time.Minute

// CreatePostInput carries the fields of a new post. Author and location are
// snapshots taken from the author's profile.
type CreatePostInput struct {
	Author         string
	Content        string
	ImageReference string
	PinCode        string
	Area           string
}

// PostService holds posts scoped by location.
type PostService interface {
	ListByLocation(ctx context.Context, pinCode, area string) ([]model.Post, error)
	Create(ctx context.Context, in CreatePostInput) (*model.Post, error)
	SeedDefaultPostsIfEmpty(ctx context.Context, pinCode, area string) (int, error)
}

type postService struct {
	repo   repository.PostRepository
	cache  *cache.Client
	logger *zap.Logger
	now    func() time.Time

	// seedLocks serializes seeding per location within this process.
	seedMu    sync.Mutex
	seedLocks map[model.Location]*sync.Mutex
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository, cache *cache.Client, logger *zap.Logger) PostService {
	return &postService{
		repo:      repo,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		seedLocks: make(map[model.Location]*sync.Mutex),
	}
}

// feedCacheKey quotes both parts so that no two locations share a key.
func feedCacheKey(loc model.Location) string {
	return "feed:" + strconv.Quote(loc.PinCode) + ":" + strconv.Quote(loc.Area)
}

// ListByLocation returns a snapshot of the location's posts in creation order.
func (s *postService) ListByLocation(ctx context.Context, pinCode, area string) ([]model.Post, error) {
	loc := model.Location{PinCode: pinCode, Area: area}

	var cached []model.Post
	if s.cache.GetJSON(ctx, feedCacheKey(loc), &cached) {
		return cached, nil
	}

	posts, err := s.repo.ListByLocation(ctx, loc)
	if err != nil {
		return nil, storageErr("list posts", err)
	}

	s.cache.SetJSON(ctx, feedCacheKey(loc), posts, feedCacheTTL)
	return posts, nil
}

// Create appends a post stamped with the current time.
func (s *postService) Create(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}

	post := &model.Post{
		Author:         in.Author,
		Content:        content,
		ImageReference: strings.TrimSpace(in.ImageReference),
		PinCode:        in.PinCode,
		Area:           in.Area,
		CreatedAt:      s.timestamp(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, storageErr("create post", err)
	}

	_ = s.cache.Delete(ctx, feedCacheKey(post.Location()))
	return post, nil
}

// SeedDefaultPostsIfEmpty inserts the starter posts when the location has
// none. It checks emptiness on every call, so it seeds at most once per
// location regardless of how often it runs.
func (s *postService) SeedDefaultPostsIfEmpty(ctx context.Context, pinCode, area string) (int, error) {
	loc := model.Location{PinCode: pinCode, Area: area}

	lock := s.seedLock(loc)
	lock.Lock()
	defer lock.Unlock()

	inserted := 0
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.PostRepository) error {
		count, err := tx.CountByLocation(ctx, loc)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		ts := s.timestamp()
		posts := make([]model.Post, 0, len(defaultPosts))
		for _, tmpl := range defaultPosts {
			posts = append(posts, model.Post{
				Author:         tmpl.author,
				Content:        tmpl.render(area),
				ImageReference: tmpl.image,
				PinCode:        pinCode,
				Area:           area,
				CreatedAt:      ts,
			})
		}
		if err := tx.CreateBatch(ctx, posts); err != nil {
			return err
		}
		inserted = len(posts)
		return nil
	})
	if err != nil {
		return 0, storageErr("seed posts", err)
	}

	if inserted > 0 {
		_ = s.cache.Delete(ctx, feedCacheKey(loc))
		s.logger.Info("seeded default posts",
			zap.String("location", loc.String()),
			zap.Int("count", inserted))
	}
	return inserted, nil
}

func (s *postService) seedLock(loc model.Location) *sync.Mutex {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	lock, ok := s.seedLocks[loc]
	if !ok {
		lock = &sync.Mutex{}
		s.seedLocks[loc] = lock
	}
	return lock
}

func (s *postService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}
