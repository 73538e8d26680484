package http

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/media"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

type ExampleHandler struct {
	*CrudHandler[domain.Example]
	examples *service.ExampleService
}

func RegisterExamples(e *echo.Echo, auth *service.AuthService, examples *service.ExampleService) {
	h := &ExampleHandler{
		CrudHandler: NewCrudHandler(examples.Crud()),
		examples:    examples,
	}

	public := e.Group("/api/v1/examples")
	public.GET("", h.List)
	public.GET("/list", h.ListAll)
	public.GET("/:id", h.Get)

	admin := e.Group("/api/v1/examples", RequireAuth(auth), CheckActive(), AllowedTo(domain.RoleAdmin))
	admin.POST("", h.create)
	admin.PATCH("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
	admin.POST("/:id/images", h.addImages)
	admin.DELETE("/:id/images", h.removeImage)
}

// create accepts either a plain JSON body or a multipart form carrying the
// cover and gallery files alongside the scalar fields.
func (h *ExampleHandler) create(c echo.Context) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		fields, err := bindFields(c)
		if err != nil {
			return err
		}
		record, err := h.examples.Crud().Create(c.Request().Context(), fields)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, util.Data(record))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperr.New(apperr.Validation, "invalid multipart payload")
	}

	fields := map[string]any{}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return apperr.New(apperr.Validation, "name is required")
	}
	fields["name"] = name

	if headers := formFiles(form, "cover"); len(headers) > 0 {
		upload, closer, err := openUpload(headers[0])
		if err != nil {
			return err
		}
		defer closer.Close()
		url, err := h.examples.UploadImage(c.Request().Context(), upload)
		if err != nil {
			return err
		}
		fields["cover"] = url
	}

	if headers := formFiles(form, "images"); len(headers) > 0 {
		uploads, closers, err := openUploads(headers)
		if err != nil {
			return err
		}
		defer closeAll(closers)
		urls, err := h.examples.UploadImages(c.Request().Context(), uploads)
		if err != nil {
			return err
		}
		fields["images"] = urls
	}

	record, err := h.examples.Crud().Create(c.Request().Context(), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, util.Data(record))
}

func (h *ExampleHandler) addImages(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.New(apperr.Validation, "invalid multipart payload")
	}
	headers := formFiles(form, "images")
	if len(headers) == 0 {
		return apperr.New(apperr.Validation, "at least one image file is required")
	}
	uploads, closers, err := openUploads(headers)
	if err != nil {
		return err
	}
	defer closeAll(closers)

	urls, err := h.examples.UploadImages(c.Request().Context(), uploads)
	if err != nil {
		return err
	}
	record, err := h.examples.Crud().AddImages(c.Request().Context(), id, urls)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(record))
}

func (h *ExampleHandler) removeImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Image string `json:"image"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Image) == "" {
		return apperr.New(apperr.Validation, "image is required")
	}
	record, err := h.examples.Crud().RemoveImage(c.Request().Context(), id, req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.Data(record))
}

func formFiles(form *multipart.Form, field string) []*multipart.FileHeader {
	headers := form.File[field]
	if extra := form.File[field+"[]"]; len(extra) > 0 {
		headers = append(headers, extra...)
	}
	return headers
}

func openUpload(header *multipart.FileHeader) (media.Upload, *uploadCloser, error) {
	file, err := header.Open()
	if err != nil {
		return media.Upload{}, nil, apperr.Wrap(apperr.Validation, "unable to read upload", err)
	}
	upload := media.Upload{
		Reader:      file,
		Size:        header.Size,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, &uploadCloser{file}, nil
}

func openUploads(headers []*multipart.FileHeader) ([]media.Upload, []*uploadCloser, error) {
	uploads := make([]media.Upload, 0, len(headers))
	closers := make([]*uploadCloser, 0, len(headers))
	for _, header := range headers {
		upload, closer, err := openUpload(header)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		uploads = append(uploads, upload)
		closers = append(closers, closer)
	}
	return uploads, closers, nil
}

type uploadCloser struct {
	file multipart.File
}

func (u *uploadCloser) Close() { _ = u.file.Close() }

func closeAll(closers []*uploadCloser) {
	for _, closer := range closers {
		closer.Close()
	}
}
