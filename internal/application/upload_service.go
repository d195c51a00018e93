package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

var (
	ErrNotAnImage = errors.New("file is not an image")
	ErrNotAVideo  = errors.New("file is not a video")
	ErrTooLarge   = errors.New("file exceeds the size limit")
)

// UploadFile is one file in a multi-file upload request. TempID is the
// client-generated in-flight id echoed back so the caller can reconcile
// spinners with stored URLs.
type UploadFile struct {
	TempID      string
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadResult maps a temp id to its stored URL.
type UploadResult struct {
	TempID string `json:"tempId"`
	URL    string `json:"url"`
}

// UploadService gates and stores media files. Validation runs before any
// byte leaves the server; uploads of a batch run concurrently and failed
// files are dropped from the result and counted.
type UploadService struct {
	GCS           *storage.Client
	Bucket        string
	MaxPhotoBytes int64
	MaxVideoBytes int64
	Logger        *logrus.Logger
}

func NewUploadService(gcs *storage.Client, bucket string, maxPhotoBytes, maxVideoBytes int64, logger *logrus.Logger) *UploadService {
	return &UploadService{GCS: gcs, Bucket: bucket, MaxPhotoBytes: maxPhotoBytes, MaxVideoBytes: maxVideoBytes, Logger: logger}
}

// validatePhoto is the gate shared by every photo path: bulk uploads,
// avatars and workplace photos.
func validatePhoto(contentType string, size, max int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > max {
		return fmt.Errorf("%w: max %d bytes", ErrTooLarge, max)
	}
	return nil
}

// ValidatePhoto applies the client-side gate rules server-side: MIME
// prefix image/ and the photo size ceiling.
func (s *UploadService) ValidatePhoto(contentType string, size int64) error {
	return validatePhoto(contentType, size, s.MaxPhotoBytes)
}

// ValidateVideo gates the single video slot.
func (s *UploadService) ValidateVideo(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "video/") {
		return ErrNotAVideo
	}
	if size > s.MaxVideoBytes {
		return fmt.Errorf("%w: max %d bytes", ErrTooLarge, s.MaxVideoBytes)
	}
	return nil
}

// UploadPhotos validates every file, then uploads the valid ones
// concurrently. The returned failed count covers both rejected and
// errored files; failures never appear in the results.
func (s *UploadService) UploadPhotos(ctx context.Context, userID string, files []UploadFile) (results []UploadResult, failed int, err error) {
	if s.GCS == nil || s.Bucket == "" {
		return nil, 0, errors.New("gcs not configured")
	}

	type slot struct {
		res UploadResult
		err error
	}
	slots := make([]slot, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		if vErr := s.ValidatePhoto(f.ContentType, f.Size); vErr != nil {
			slots[i].err = vErr
			continue
		}
		wg.Add(1)
		go func(i int, f UploadFile) {
			defer wg.Done()
			rc, oErr := f.Open()
			if oErr != nil {
				slots[i].err = oErr
				return
			}
			defer func() { _ = rc.Close() }()
			ext := strings.ToLower(filepath.Ext(f.Filename))
			objectPath := filepath.ToSlash(filepath.Join("uploads", userID, uuid.NewString()+ext))
			url, uErr := helpers.UploadObject(ctx, s.GCS, s.Bucket, objectPath, f.ContentType, rc)
			if uErr != nil {
				slots[i].err = uErr
				return
			}
			slots[i].res = UploadResult{TempID: f.TempID, URL: url}
		}(i, f)
	}
	wg.Wait()

	results = make([]UploadResult, 0, len(files))
	for i := range slots {
		if slots[i].err != nil {
			failed++
			if s.Logger != nil {
				s.Logger.WithError(slots[i].err).WithField("filename", files[i].Filename).Warn("upload failed")
			}
			continue
		}
		results = append(results, slots[i].res)
	}
	return results, failed, nil
}

// UploadVideo stores the single video slot for a listing.
func (s *UploadService) UploadVideo(ctx context.Context, userID string, f UploadFile) (string, error) {
	if s.GCS == nil || s.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	if err := s.ValidateVideo(f.ContentType, f.Size); err != nil {
		return "", err
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()
	ext := strings.ToLower(filepath.Ext(f.Filename))
	objectPath := filepath.ToSlash(filepath.Join("videos", userID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.Bucket, objectPath, f.ContentType, rc)
}
