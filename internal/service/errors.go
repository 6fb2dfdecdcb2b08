package service

import (
	"errors"
	"net/http"

	"github.com/segyhp/pledge-desk/internal/backend"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
)

// backendError turns repository errors into business errors the handlers
// know how to render.
func backendError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := customError.AsBusinessError(err); ok {
		return err
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return customError.WrapBackendRejected(apiErr.StatusCode, apiErr.Message)
	}
	if errors.Is(err, backend.ErrUnreachable) {
		return customError.WrapBackendUnreachable(err)
	}
	return err
}

func isNotFound(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
