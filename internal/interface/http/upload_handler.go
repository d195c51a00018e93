package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
)

// UploadHandler accepts multipart media uploads. Photos go under the
// "photos" field, optionally paired with a parallel "tempIds" field so
// the client can reconcile in-flight previews with stored URLs.
type UploadHandler struct {
	Svc    *app.UploadService
	Logger *logrus.Logger
}

func NewUploadHandler(svc *app.UploadService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Svc: svc, Logger: logger}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "multipart form required", nil)
		return
	}
	files := form.File["photos"]
	if len(files) == 0 && len(form.File["video"]) == 0 {
		response.Error[any](c, http.StatusBadRequest, "no files in request", nil)
		return
	}
	tempIDs := form.Value["tempIds"]

	in := make([]app.UploadFile, 0, len(files))
	for i, fh := range files {
		fh := fh
		tempID := fh.Filename
		if i < len(tempIDs) {
			tempID = tempIDs[i]
		}
		in = append(in, app.UploadFile{
			TempID:      tempID,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	results, failed, err := h.Svc.UploadPhotos(c.Request.Context(), c.GetString("userID"), in)
	if err != nil {
		h.Logger.WithError(err).Error("photo upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	out := gin.H{"photos": results}

	if vfs := form.File["video"]; len(vfs) > 0 {
		vh := vfs[0]
		url, vErr := h.Svc.UploadVideo(c.Request.Context(), c.GetString("userID"), app.UploadFile{
			TempID:      vh.Filename,
			Filename:    vh.Filename,
			ContentType: vh.Header.Get("Content-Type"),
			Size:        vh.Size,
			Open:        func() (io.ReadCloser, error) { return vh.Open() },
		})
		if vErr != nil {
			failed++
		} else {
			out["videoUrl"] = url
		}
	}
	out["failed"] = failed

	status := http.StatusOK
	if failed > 0 {
		status = http.StatusMultiStatus
	}
	response.Success(c, status, out, "upload processed", map[string]any{"failed": failed})
}
