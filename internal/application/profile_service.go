package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

// ProfileService handles profile reads and edits plus avatar and
// workplace photo storage.
type ProfileService struct {
	Users         repo.UserRepository
	Workplace     repo.WorkplacePhotoRepository
	GCS           *storage.Client
	GCSBucket     string
	MaxPhotoBytes int64
	Redis         *redis.Client
	Logger        *logrus.Logger
}

func NewProfileService(users repo.UserRepository, workplace repo.WorkplacePhotoRepository, gcs *storage.Client, bucket string, maxPhotoBytes int64, rdb *redis.Client, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Workplace: workplace, GCS: gcs, GCSBucket: bucket, MaxPhotoBytes: maxPhotoBytes, Redis: rdb, Logger: logger}
}

func (s *ProfileService) Get(userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *ProfileService) GetByUsername(username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(username)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfileInput carries the editable profile fields. Nil pointers
// leave the stored value untouched.
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	DisplayNamePref *string
	Bio             *string
	Quote           *string
	Street          *string
	HouseNumber     *string
	PostalCode      *string
	City            *string
	Country         *string
	KVKNumber       *string
	VATNumber       *string
	CourierActive   *bool
}

// Update applies the profile edits and refreshes the cached session name.
func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&u.FirstName, in.FirstName)
	setStr(&u.LastName, in.LastName)
	setStr(&u.Bio, in.Bio)
	setStr(&u.Quote, in.Quote)
	setStr(&u.Street, in.Street)
	setStr(&u.HouseNumber, in.HouseNumber)
	setStr(&u.PostalCode, in.PostalCode)
	setStr(&u.City, in.City)
	setStr(&u.Country, in.Country)
	if in.DisplayNamePref != nil {
		switch *in.DisplayNamePref {
		case "username", "fullname", "firstname":
			u.DisplayNamePref = *in.DisplayNamePref
		default:
			return nil, errors.New("display name preference must be username, fullname or firstname")
		}
	}
	if (in.KVKNumber != nil || in.VATNumber != nil) && u.Business == nil {
		u.Business = &entity.BusinessProfile{Subscription: "free"}
	}
	if u.Business != nil {
		setStr(&u.Business.KVKNumber, in.KVKNumber)
		setStr(&u.Business.VATNumber, in.VATNumber)
	}
	if in.CourierActive != nil {
		if u.Courier == nil {
			u.Courier = &entity.CourierProfile{}
		}
		u.Courier.Active = *in.CourierActive
	}

	if err := s.Users.Update(u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe := s.Redis.Pipeline()
			pipe.HSet(ctx, key, map[string]any{"name": u.DisplayName(), "updated_at": nowRFC3339()})
			pipe.Expire(ctx, key, ttl)
			if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
				s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
			}
		}
	}
	return u, nil
}

// UploadAvatar stores the profile photo in GCS and updates the user.
// The same gate as the bulk upload endpoint applies.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	if err := validatePhoto(contentType, size, s.MaxPhotoBytes); err != nil {
		return "", err
	}
	u, err := s.Users.GetByID(userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{"avatar_url": u.AvatarURL, "updated_at": nowRFC3339()})
	}
	return url, nil
}

// AddWorkplacePhoto uploads a workplace photo and stores its record.
func (s *ProfileService) AddWorkplacePhoto(ctx context.Context, userID string, r io.Reader, filename, contentType, caption string, size int64) (*entity.WorkplacePhoto, error) {
	if err := validatePhoto(contentType, size, s.MaxPhotoBytes); err != nil {
		return nil, err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	existing, err := s.Workplace.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("workplace", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	p := &entity.WorkplacePhoto{
		UserID:  userID,
		URL:     url,
		Caption: caption,
		Index:   len(existing),
	}
	if err := s.Workplace.Add(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) WorkplacePhotos(userID string) ([]*entity.WorkplacePhoto, error) {
	return s.Workplace.ListByUser(userID)
}

// DeleteWorkplacePhoto removes the record and best-effort deletes the
// stored object.
func (s *ProfileService) DeleteWorkplacePhoto(ctx context.Context, userID, photoID string) error {
	var url string
	if photos, err := s.Workplace.ListByUser(userID); err == nil {
		for _, p := range photos {
			if p.ID == photoID {
				url = p.URL
				break
			}
		}
	}
	if err := s.Workplace.Delete(photoID, userID); err != nil {
		return err
	}
	if s.GCS != nil && url != "" {
		prefix := helpers.PublicURL(s.GCSBucket, "")
		if strings.HasPrefix(url, prefix) {
			if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, strings.TrimPrefix(url, prefix)); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("url", url).Warn("gcs object delete failed")
			}
		}
	}
	return nil
}
