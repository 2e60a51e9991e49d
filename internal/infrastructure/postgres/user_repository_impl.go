package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialite/internal/domain/entity"
	"socialite/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, name, username, email, password, location, cell, age, gender, skill,
	photo, gallery, is_activated, is_admin, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Password, &u.Location,
		&u.Cell, &u.Age, &u.Gender, &u.Skill, &u.Photo, &u.Gallery,
		&u.IsActivated, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, username = $2, location = $3, cell = $4, age = $5,
		    gender = $6, skill = $7, updated_at = $8
		WHERE id = $9
	`, u.Name, u.Username, u.Location, u.Cell, u.Age, u.Gender, u.Skill, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetActivated(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET is_activated = true, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetPhoto(ctx context.Context, id, photo string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET photo = $1, updated_at = now() WHERE id = $2
	`, photo, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddGalleryPhotos(ctx context.Context, id string, photos []string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET gallery = gallery || $1, updated_at = now() WHERE id = $2
	`, photos, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListOthers(ctx context.Context, excludeID string) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id <> $1
		ORDER BY created_at DESC
	`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Follow writes one edge row. The single-row write keeps following and
// follower views symmetric without cross-document coordination.
func (r *UserRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	return err
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	return err
}

func (r *UserRepository) Following(ctx context.Context, id string) ([]string, error) {
	return r.edgeIDs(ctx, `
		SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at
	`, id)
}

func (r *UserRepository) Followers(ctx context.Context, id string) ([]string, error) {
	return r.edgeIDs(ctx, `
		SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at
	`, id)
}

func (r *UserRepository) edgeIDs(ctx context.Context, query, id string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		ids = append(ids, s)
	}
	return ids, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
