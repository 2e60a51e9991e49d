package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"socialite/config"
	"socialite/internal/domain/entity"
	repo "socialite/internal/domain/repository"
	"socialite/pkg/helpers"
	"socialite/pkg/mailer"
	tpl "socialite/pkg/mailer/templates"
)

var (
	ErrEmailTaken       = errors.New("email already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrNotActivated     = errors.New("account not activated")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrSelfFollow       = errors.New("cannot follow yourself")
)

// Service implements every profile-domain operation. Redis, GCS, ES and the
// queue publisher are nil-guarded so the service degrades (and tests run)
// without them.
type Service struct {
	Repo         repo.UserRepository
	Tokens       *helpers.TokenManager
	GCS          *storage.Client
	Redis        *redis.Client
	Pub          *helpers.RabbitPublisher
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Cfg          *config.Config
}

func NewService(r repo.UserRepository, tokens *helpers.TokenManager, gcs *storage.Client, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, es *elasticsearch.Client, cfg *config.Config) *Service {
	return &Service{
		Repo:         r,
		Tokens:       tokens,
		GCS:          gcs,
		Redis:        rdb,
		Pub:          pub,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: cfg.ESUsersIndex,
		Cfg:          cfg,
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an inactive user and mails the activation link.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, _, err := s.Tokens.Issue(u.ID, helpers.PurposeActivate)
	if err != nil {
		return nil, err
	}
	s.enqueueEmail(ctx, u.Email, tpl.AccountActivation, map[string]any{
		"Name":    u.Name,
		"Email":   u.Email,
		"Link":    s.Cfg.ActivateLink(token),
		"AppName": s.Cfg.AppName,
	})

	_ = s.indexUser(ctx, u)
	return u, nil
}

// Activate flips the activation flag once. The second exercise of a token
// is a no-op, reported via alreadyActive.
func (s *Service) Activate(ctx context.Context, token string) (alreadyActive bool, err error) {
	claims, err := s.Tokens.Parse(token, helpers.PurposeActivate)
	if err != nil {
		return false, ErrInvalidToken
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return false, ErrUserNotFound
	}
	if u.IsActivated {
		return true, nil
	}
	if err := s.Repo.SetActivated(ctx, u.ID); err != nil {
		return false, err
	}
	return false, nil
}

// Login validates the credentials, requires an activated account and issues
// the long-lived session token plus a Redis session record.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrUserNotFound
	}
	if !u.IsActivated {
		return nil, "", time.Time{}, ErrNotActivated
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidPassword
	}

	token, exp, err := s.Tokens.Issue(u.ID, helpers.PurposeSession)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        uuid.NewString(),
			"email":      u.Email,
			"name":       u.Name,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.Tokens.SessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, token, exp, nil
}

// Logout drops the Redis session record; the cookie is cleared by the handler.
func (s *Service) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	_ = s.Redis.Del(ctx, helpers.SessionKey(userID)).Err()
}

// ChangePassword verifies the old password against the stored hash, not a
// cached session snapshot.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPass, newPass string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPass) {
		return ErrInvalidPassword
	}
	hash, err := helpers.HashPassword(newPass)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.Logout(ctx, userID)
	return nil
}

// ForgotPassword mails a reset link when the email is known.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	token, _, err := s.Tokens.Issue(u.ID, helpers.PurposeReset)
	if err != nil {
		return err
	}
	s.enqueueEmail(ctx, u.Email, tpl.PasswordReset, map[string]any{
		"Name":    u.Name,
		"Email":   u.Email,
		"Link":    s.Cfg.ResetLink(token),
		"AppName": s.Cfg.AppName,
	})
	return nil
}

// ResetPassword exchanges a reset-purpose token for a new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPass string) error {
	claims, err := s.Tokens.Parse(token, helpers.PurposeReset)
	if err != nil {
		return ErrInvalidToken
	}
	hash, err := helpers.HashPassword(newPass)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// GetProfile returns a fresh user record with both sides of the follow graph.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, []string, []string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, nil, nil, ErrUserNotFound
	}
	following, err := s.Repo.Following(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	followers, err := s.Repo.Followers(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return u, following, followers, nil
}

type UpdateProfileInput struct {
	Name     string
	Username string
	Location string
	Cell     string
	Age      int
	Gender   string
	Skill    string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	u.Name = in.Name
	u.Username = in.Username
	u.Location = in.Location
	u.Cell = in.Cell
	u.Gender = in.Gender
	if in.Age > 0 {
		u.Age = in.Age
	}
	if in.Skill != "" {
		u.Skill = in.Skill
	}
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// mediaFilename prefixes the original name with the upload unix-millis so
// repeated uploads of the same file never collide.
func mediaFilename(original string, now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), filepath.Base(original))
}

// UploadPhoto stores the single profile photo under the users media prefix
// and overwrites the user's photo reference.
func (s *Service) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	url, err := s.uploadMedia(ctx, s.Cfg.MediaUsersDir, filename, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetPhoto(ctx, userID, url); err != nil {
		return "", err
	}
	u.Photo = url
	_ = s.indexUser(ctx, u)
	return url, nil
}

type GalleryFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// UploadGallery appends up to five photos to the user's gallery.
func (s *Service) UploadGallery(ctx context.Context, userID string, files []GalleryFile) ([]string, error) {
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.uploadMedia(ctx, s.Cfg.MediaGalleryDir, f.Filename, f.ContentType, f.Reader)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	if err := s.Repo.AddGalleryPhotos(ctx, userID, urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (s *Service) uploadMedia(ctx context.Context, dir, filename, contentType string, r io.Reader) (string, error) {
	if s.GCS == nil || s.Cfg.GCSBucket == "" {
		return "", errors.New("object storage not configured")
	}
	objectPath := filepath.ToSlash(filepath.Join(dir, mediaFilename(filename, time.Now())))
	return helpers.UploadObject(ctx, s.GCS, s.Cfg.GCSBucket, objectPath, contentType, r)
}

// Follow writes the single edge row; both directions of the graph derive
// from it, so there is no dual-write to keep in sync.
func (s *Service) Follow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.Repo.GetByID(ctx, targetID); err != nil {
		return ErrUserNotFound
	}
	return s.Repo.Follow(ctx, userID, targetID)
}

// Unfollow removes the edge; removing a non-existent edge is a no-op.
func (s *Service) Unfollow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrSelfFollow
	}
	return s.Repo.Unfollow(ctx, userID, targetID)
}

// FindUsers lists everyone except the requester, newest first.
func (s *Service) FindUsers(ctx context.Context, selfID string) ([]*entity.User, error) {
	return s.Repo.ListOthers(ctx, selfID)
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"username":   u.Username,
		"email":      u.Email,
		"location":   u.Location,
		"skill":      u.Skill,
		"photo":      u.Photo,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers runs a multi_match query over the users index. Callers fall
// back to FindUsers when ES is not configured.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "username^2", "skill", "email"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *Service) enqueueEmail(ctx context.Context, to, template string, data map[string]any) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("failed to publish email job")
	}
}
