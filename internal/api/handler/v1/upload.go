package v1

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbuddy/api/internal/api/handler/v1/response"
	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/service"
)

const (
	uploadFormField = "files"

	// Room for part headers and boundaries on top of the file payloads.
	uploadBodySlack = 1 << 20
)

var errNoFiles = errors.New("no files provided")

type UploadService interface {
	Upload(ctx context.Context, user domain.User, files []service.UploadFile) ([]service.UploadedFile, error)
	Delete(ctx context.Context, user domain.User, url string) error
}

type UploadHandler struct {
	svc     UploadService
	maxBody int64
}

func NewUploadHandler(svc UploadService) *UploadHandler {
	return &UploadHandler{
		svc:     svc,
		maxBody: service.MaxUploadFiles*service.MaxUploadFileSize + uploadBodySlack,
	}
}

// HandleUpload godoc
// @Summary      Upload event images
// @Description  Up to 5 files of at most 10MB each; jpg, jpeg, png, gif or webp.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files  formData  file  true  "images"
// @Success      200    {object}  response.Upload
// @Failure      400    {object}  response.Err
// @Failure      413    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /upload/upload [post]
func (h *UploadHandler) HandleUpload(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxBody)
	form, err := ctx.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RenderErr(ctx, response.ErrRequestTooLarge(errors.New("request body too large")))
			return
		}
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	headers := form.File[uploadFormField]
	if len(headers) == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errNoFiles))
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, toUploadFile(fh))
	}

	uploaded, err := h.svc.Upload(ctx.Request.Context(), user, files)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpload -> h.svc.Upload", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewUpload(uploaded))
}

func toUploadFile(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// HandleDeleteUpload godoc
// @Summary      Delete an uploaded image
// @Tags         upload
// @Produce      json
// @Security     BearerAuth
// @Param        file_url  query     string  true  "url returned by the upload"
// @Success      200       {object}  response.Message
// @Failure      400       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /upload/delete [delete]
func (h *UploadHandler) HandleDeleteUpload(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), user, ctx.Query("file_url")); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteUpload -> h.svc.Delete", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "File deleted successfully"})
}
