// Package memory holds an in-memory UserRepository used by tests and local
// experiments; it mirrors the Postgres implementation's semantics, including
// single-row follow edges and newest-first listing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialite/internal/domain/entity"
	repo "socialite/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	byEmail map[string]string
	// follower id -> set of followee ids
	follows map[string]map[string]struct{}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
		follows: make(map[string]map[string]struct{}),
	}
}

var _ repo.UserRepository = (*UserRepository)(nil)

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Gallery = append([]string(nil), u.Gallery...)
	return &c
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[u.Email]; exists {
		return repo.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Gallery == nil {
		u.Gallery = []string{}
	}
	r.users[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Name = u.Name
	stored.Username = u.Username
	stored.Location = u.Location
	stored.Cell = u.Cell
	stored.Age = u.Age
	stored.Gender = u.Gender
	stored.Skill = u.Skill
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SetActivated(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.IsActivated = true
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SetPhoto(_ context.Context, id, photo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Photo = photo
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) AddGalleryPhotos(_ context.Context, id string, photos []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Gallery = append(u.Gallery, photos...)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) ListOthers(_ context.Context, excludeID string) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.users))
	for id, u := range r.users {
		if id == excludeID {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Follow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.follows[followerID]
	if !ok {
		set = make(map[string]struct{})
		r.follows[followerID] = set
	}
	set[followeeID] = struct{}{}
	return nil
}

func (r *UserRepository) Unfollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.follows[followerID]; ok {
		delete(set, followeeID)
	}
	return nil
}

func (r *UserRepository) Following(_ context.Context, id string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []string{}
	for followee := range r.follows[id] {
		out = append(out, followee)
	}
	sort.Strings(out)
	return out, nil
}

func (r *UserRepository) Followers(_ context.Context, id string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []string{}
	for follower, set := range r.follows {
		if _, ok := set[id]; ok {
			out = append(out, follower)
		}
	}
	sort.Strings(out)
	return out, nil
}
