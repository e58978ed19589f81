package handler

import (
	"errors"
	"net/http"

	"imager/internal/core/domain"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// mapError converts a domain error into an echo.HTTPError.
func mapError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")

	case errors.Is(err, domain.ErrInvalidParameters),
		errors.Is(err, domain.ErrInvalidFilename),
		errors.Is(err, domain.ErrUnsupportedContentType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrUploadTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "upload too large")

	case errors.Is(err, domain.ErrBusy):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "too many pending generations")

	default:
		log.Error().Err(err).Msg("unhandled error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
