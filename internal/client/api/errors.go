package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is a rejected request. StatusCode is 0 when no HTTP response was
// received.
type APIError struct {
	StatusCode int
	Payload    models.ErrorPayload
	err        error
}

func (e *APIError) Error() string {
	msg := e.Payload.Message()
	if e.StatusCode == 0 {
		return fmt.Sprintf("api error: %s", msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error { return e.err }

func newHTTPError(status int, payload models.ErrorPayload) *APIError {
	e := &APIError{StatusCode: status, Payload: payload}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.err = ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.err = ErrUnavailable
	}
	return e
}

func newTransportError(err error) *APIError {
	return &APIError{
		Payload: models.DetailPayload(err.Error()),
		err:     fmt.Errorf("%w: %w", ErrUnavailable, err),
	}
}

func newInvalidResponseError(status int, cause error) *APIError {
	return &APIError{
		StatusCode: status,
		Payload:    models.DetailPayload("invalid response: " + cause.Error()),
		err:        fmt.Errorf("%w: %w", ErrInvalidResponse, cause),
	}
}

// PayloadOf returns the error payload carried by err. Errors that did not
// come from the API are wrapped as {"detail": err.Error()}; nil yields nil.
func PayloadOf(err error) models.ErrorPayload {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Payload
	}
	return models.DetailPayload(err.Error())
}
