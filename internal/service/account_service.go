package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hyperlocal/internal/cache"
	apperrors "hyperlocal/internal/errors"
	"hyperlocal/internal/location"
	"hyperlocal/internal/model"
	"hyperlocal/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute

	// legacyHashLen is the length of a hex SHA-256 digest, the password
	// format of accounts imported from the CSV tables.
	legacyHashLen = sha256.Size * 2
)

// ProfileInput carries the fields set during profile setup.
type ProfileInput struct {
	PublicName string
	Country    string
	State      string
	District   string
	PinCode    string
	Area       string
}

// Seeder inserts starter posts for a location that has none.
type Seeder interface {
	SeedDefaultPostsIfEmpty(ctx context.Context, pinCode, area string) (int, error)
}

// AccountService holds user records, verifies credentials and tracks
// profile completion.
type AccountService interface {
	Register(ctx context.Context, fullName, phone, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	CompleteProfile(ctx context.Context, email string, in ProfileInput) (*model.User, error)
	IsProfileComplete(user *model.User) bool
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type accountService struct {
	repo     repository.UserRepository
	seeder   Seeder
	cache    *cache.Client
	defaults location.Defaults
}

// NewAccountService creates a new account service.
func NewAccountService(repo repository.UserRepository, seeder Seeder, cache *cache.Client, defaults location.Defaults) AccountService {
	return &accountService{
		repo:     repo,
		seeder:   seeder,
		cache:    cache,
		defaults: defaults,
	}
}

func (s *accountService) cacheKey(email string) string {
	return "user:" + email
}

// Register creates a user with a bcrypt password hash and an empty profile.
func (s *accountService) Register(ctx context.Context, fullName, phone, email, password string) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr("check user existence", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Phone:        phone,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent sign-up for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, storageErr("create user", err)
	}
	return user, nil
}

// Authenticate reports ErrInvalidCredentials for an unknown email and for a
// wrong password alike. A legacy SHA-256 hash is replaced with a bcrypt hash
// on the first successful login.
func (s *accountService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storageErr("find user", err)
	}

	if !isLegacyHash(user.PasswordHash) {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return nil, apperrors.ErrInvalidCredentials
		}
		return user, nil
	}

	stored, _ := hex.DecodeString(user.PasswordHash)
	sum := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(sum[:], stored) != 1 {
		return nil, apperrors.ErrInvalidCredentials
	}

	upgraded, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, string(upgraded)); err != nil {
		return nil, storageErr("upgrade password hash", err)
	}
	user.PasswordHash = string(upgraded)
	return user, nil
}

func isLegacyHash(hash string) bool {
	if len(hash) != legacyHashLen {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// CompleteProfile sets the profile fields of a user who has none yet and
// seeds the home location's feed when it is empty.
func (s *accountService) CompleteProfile(ctx context.Context, email string, in ProfileInput) (*model.User, error) {
	in = s.normalize(in)
	if in.PublicName == "" || in.PinCode == "" || in.Area == "" {
		return nil, apperrors.ErrInvalidProfile
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageErr("find user", err)
	}
	if user.ProfileComplete() {
		return nil, apperrors.ErrProfileAlreadyComplete
	}

	user.PublicName = in.PublicName
	user.Country = in.Country
	user.State = in.State
	user.District = in.District
	user.PinCode = in.PinCode
	user.Area = in.Area

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageErr("update profile", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(email))

	if _, err := s.seeder.SeedDefaultPostsIfEmpty(ctx, user.PinCode, user.Area); err != nil {
		return nil, fmt.Errorf("seed default posts: %w", err)
	}
	return user, nil
}

func (s *accountService) normalize(in ProfileInput) ProfileInput {
	in.PublicName = strings.TrimSpace(in.PublicName)
	in.PinCode = strings.TrimSpace(in.PinCode)
	in.Area = strings.TrimSpace(in.Area)
	if in.Country = strings.TrimSpace(in.Country); in.Country == "" {
		in.Country = s.defaults.Country
	}
	if in.State = strings.TrimSpace(in.State); in.State == "" {
		in.State = s.defaults.State
	}
	if in.District = strings.TrimSpace(in.District); in.District == "" {
		in.District = s.defaults.District
	}
	return in
}

// IsProfileComplete is true iff the public name is set.
func (s *accountService) IsProfileComplete(user *model.User) bool {
	return user.ProfileComplete()
}

// GetByEmail retrieves a user with caching.
func (s *accountService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(email), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageErr("find user", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(email), user, userCacheTTL)
	return user, nil
}
