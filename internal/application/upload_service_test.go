package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploadService() *UploadService {
	return NewUploadService(nil, "", 10<<20, 100<<20, testLogger())
}

func TestValidatePhoto(t *testing.T) {
	svc := newTestUploadService()

	require.NoError(t, svc.ValidatePhoto("image/jpeg", 1024))
	require.NoError(t, svc.ValidatePhoto("image/png", 10<<20))

	err := svc.ValidatePhoto("application/pdf", 1024)
	require.ErrorIs(t, err, ErrNotAnImage)

	err = svc.ValidatePhoto("video/mp4", 1024)
	require.ErrorIs(t, err, ErrNotAnImage)

	err = svc.ValidatePhoto("image/jpeg", 10<<20+1)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestValidateVideo(t *testing.T) {
	svc := newTestUploadService()

	require.NoError(t, svc.ValidateVideo("video/mp4", 50<<20))

	err := svc.ValidateVideo("image/jpeg", 1024)
	require.ErrorIs(t, err, ErrNotAVideo)

	err = svc.ValidateVideo("video/mp4", 100<<20+1)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestUploadPhotos_RequiresGCS(t *testing.T) {
	svc := newTestUploadService()
	_, _, err := svc.UploadPhotos(context.Background(), "user-1", []UploadFile{{ContentType: "image/jpeg", Size: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gcs not configured")
}
