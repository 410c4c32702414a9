package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// ErrTransportUnavailable means the backend could not be reached or answered
// with a gateway error. Callers with a local fallback use it as the trigger.
var ErrTransportUnavailable = errors.New("backend unavailable")

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Unwrap maps the response back onto the domain error it was produced from,
// so callers can use errors.Is and errors.As against the usual sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		switch e.Message {
		case "Email already registered":
			return store.ErrDuplicateEmail
		case "Cart is empty":
			return models.ErrEmptyCart
		case "Invalid status":
			return models.ErrInvalidStatus
		}
		return &models.ValidationError{Field: e.Field, Message: e.Message}
	case http.StatusUnauthorized:
		if e.Message == "Invalid email or password" {
			return auth.ErrInvalidCredentials
		}
		return auth.ErrUnauthenticated
	case http.StatusForbidden:
		return auth.ErrForbidden
	case http.StatusNotFound:
		return store.ErrNotFound
	}
	return nil
}

// IsTransport reports whether the backend could not be reached at all.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransportUnavailable)
}

// IsUnavailable reports whether the backend could not serve the request:
// it was unreachable or failed with a server error. Callers with a local
// fallback use it as the trigger.
func IsUnavailable(err error) bool {
	if IsTransport(err) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError
}

func isGatewayStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
