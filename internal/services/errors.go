package services

import (
	"net/http"

	"github.com/P4t4m8n/buff-buddy-api/internal/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "Resource not found")
	ErrForbidden       = apperror.New(http.StatusForbidden, "Not Authorized")
	ErrUnauthenticated = apperror.New(http.StatusUnauthorized, "Not Authenticated")

	// ErrAccountNotFound and ErrInvalidCredentials share a message so the
	// response does not reveal which emails are registered.
	ErrAccountNotFound    = apperror.New(http.StatusUnauthorized, "Invalid email or password")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "Invalid email or password")
	ErrIdentityMismatch   = apperror.New(http.StatusConflict, "This email is registered with a different sign-in method")

	ErrProviderDisabled = apperror.New(http.StatusNotFound, "External sign-in is not enabled")
	ErrProviderExchange = apperror.New(http.StatusBadRequest, "Could not complete external sign-in")
)
