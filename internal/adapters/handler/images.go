package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"imager/internal/core/domain"
	"imager/internal/core/port"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

type Images struct {
	service       port.ImageService
	maxUploadSize int64
}

// NewImages serves the image API. A maxUploadSize of zero or less disables the upload limit.
func NewImages(service port.ImageService, maxUploadSize int64) *Images {
	return &Images{service: service, maxUploadSize: maxUploadSize}
}

// multipartOverhead is the allowance for form boundaries and part headers on top of the file.
const multipartOverhead = 1 << 20

func (h *Images) Register(e *echo.Echo) {
	e.GET("/images/:filename", h.Get)
	e.POST("/images", h.Upload, h.bodyLimit()...)
	e.PUT("/images/:filename", h.Crop)
}

// bodyLimit rejects oversized uploads before the multipart body is parsed.
func (h *Images) bodyLimit() []echo.MiddlewareFunc {
	if h.maxUploadSize <= 0 {
		return nil
	}

	return []echo.MiddlewareFunc{middleware.BodyLimit(fmt.Sprintf("%dB", h.maxUploadSize+multipartOverhead))}
}

// Get returns the original, or with a resizeParams query the resize derivative. A missing
// derivative is scheduled and answered with 202.
func (h *Images) Get(c echo.Context) error {
	name, err := filename(c)
	if err != nil {
		return mapError(err)
	}

	ctx := c.Request().Context()

	if !c.QueryParams().Has("resizeParams") {
		asset, err := h.service.Original(ctx, name)
		if err != nil {
			return mapError(err)
		}

		return c.Blob(http.StatusOK, asset.ContentType, asset.Data)
	}

	params, err := domain.ParseResizeParams(c.QueryParam("resizeParams"))
	if err != nil {
		return mapError(err)
	}

	asset, err := h.service.Resized(ctx, name, params)
	if errors.Is(err, domain.ErrPending) {
		return c.JSON(http.StatusAccepted, map[string]string{"status": "pending"})
	}
	if err != nil {
		return mapError(err)
	}

	return c.Blob(http.StatusOK, asset.ContentType, asset.Data)
}

func (h *Images) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		log.Debug().Err(err).Msg("upload without file")
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		return mapError(fmt.Errorf("%w: %d bytes", domain.ErrUploadTooLarge, fh.Size))
	}

	f, err := fh.Open()
	if err != nil {
		return mapError(fmt.Errorf("error opening upload %w", err))
	}
	defer f.Close()

	stored, err := h.service.Upload(c.Request().Context(), domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"filename": stored})
}

// Crop accepts a crop box and schedules its generation.
func (h *Images) Crop(c echo.Context) error {
	name, err := filename(c)
	if err != nil {
		return mapError(err)
	}

	var params domain.CropParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid crop parameters")
	}

	if err := h.service.RequestCrop(c.Request().Context(), name, params); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func filename(c echo.Context) (string, error) {
	name, err := url.PathUnescape(c.Param("filename"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidFilename, err)
	}

	return name, domain.ValidateFilename(name)
}
