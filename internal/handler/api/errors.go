package api

import (
	"errors"

	"SentiCast/internal/services/forecast"
	"SentiCast/internal/usecase"
	xhttp "SentiCast/pkg/http"
)

// appError maps use case errors onto HTTP errors; anything unknown is a 500.
func appError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrCatalogLoading):
		return xhttp.ServiceUnavailableError("forecast catalog is loading").WithError(err)
	case errors.Is(err, usecase.ErrUnknownModel), errors.Is(err, forecast.ErrNoRuns):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrEmptyText):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	default:
		return err
	}
}
