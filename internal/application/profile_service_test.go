package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func newTestProfileService(t *testing.T) (*ProfileService, *fakeUserRepo) {
	t.Helper()
	rdb, _ := setupTestRedis(t)
	repo := newFakeUserRepo()
	return NewProfileService(repo, nil, nil, "", 10<<20, rdb, testLogger()), repo
}

func seedUser(t *testing.T, repo *fakeUserRepo) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:           "janneke@example.com",
		Username:        "kok.van.hiernaast",
		FirstName:       "Janneke",
		LastName:        "de Vries",
		DisplayNamePref: "username",
	}
	require.NoError(t, repo.Create(u))
	return u
}

func TestProfileUpdate_NilFieldsUntouched(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	updated, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{Bio: strPtr("Thuiskok uit Utrecht")})
	require.NoError(t, err)
	assert.Equal(t, "Thuiskok uit Utrecht", updated.Bio)
	assert.Equal(t, "Janneke", updated.FirstName, "fields without a pointer stay unchanged")
}

func TestProfileUpdate_DisplayNamePref(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	_, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{DisplayNamePref: strPtr("shoutyname")})
	require.Error(t, err)

	updated, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{DisplayNamePref: strPtr("fullname")})
	require.NoError(t, err)
	assert.Equal(t, "Janneke de Vries", updated.DisplayName())
}

func TestProfileUpdate_CreatesBusinessLazily(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	updated, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{KVKNumber: strPtr("12345678")})
	require.NoError(t, err)
	require.NotNil(t, updated.Business)
	assert.Equal(t, "12345678", updated.Business.KVKNumber)
	assert.Equal(t, "free", updated.Business.Subscription)
}

func TestProfileUpdate_CourierToggle(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	active := true
	updated, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{CourierActive: &active})
	require.NoError(t, err)
	require.NotNil(t, updated.Courier)
	assert.True(t, updated.Courier.Active)
}

func TestProfileUpdate_RefreshesSessionName(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	repo := newFakeUserRepo()
	svc := NewProfileService(repo, nil, nil, "", 10<<20, rdb, testLogger())
	u := seedUser(t, repo)

	mr.HSet(sessionKey(u.ID), "sid", "sid-1", "name", u.Username)
	mr.SetTTL(sessionKey(u.ID), 24*time.Hour)

	_, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{DisplayNamePref: strPtr("firstname")})
	require.NoError(t, err)
	assert.Equal(t, "Janneke", mr.HGet(sessionKey(u.ID), "name"))
}

func TestUploadAvatar_AppliesPhotoGate(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	_, err := svc.UploadAvatar(context.Background(), u.ID, strings.NewReader("x"), "cv.pdf", "application/pdf", 10)
	require.ErrorIs(t, err, ErrNotAnImage)

	_, err = svc.UploadAvatar(context.Background(), u.ID, strings.NewReader("x"), "huge.jpg", "image/jpeg", (10<<20)+1)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestAddWorkplacePhoto_AppliesPhotoGate(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	_, err := svc.AddWorkplacePhoto(context.Background(), u.ID, strings.NewReader("x"), "clip.mp4", "video/mp4", "atelier", 10)
	require.ErrorIs(t, err, ErrNotAnImage)

	_, err = svc.AddWorkplacePhoto(context.Background(), u.ID, strings.NewReader("x"), "huge.png", "image/png", "atelier", (10<<20)+1)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestProfileGet(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedUser(t, repo)

	got, err := svc.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)

	byName, err := svc.GetByUsername("kok.van.hiernaast")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = svc.Get("nope")
	require.ErrorIs(t, err, ErrUserNotFound)
}
