package repository

import (
	"context"
	"errors"

	"socialite/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the given id or email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a create would violate email uniqueness.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the persistence operations for the user aggregate
// and its follow edges.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetActivated(ctx context.Context, id string) error
	SetPhoto(ctx context.Context, id, photo string) error
	AddGalleryPhotos(ctx context.Context, id string, photos []string) error

	// ListOthers returns every user except the given one, newest first.
	ListOthers(ctx context.Context, excludeID string) ([]*entity.User, error)

	// Follow and Unfollow write a single edge row; both are idempotent.
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Following(ctx context.Context, id string) ([]string, error)
	Followers(ctx context.Context, id string) ([]string, error)
}
