// Package apperror maps every error a request can produce onto the single
// response envelope returned to clients.
package apperror

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
)

const (
	uniqueViolation = "23505"

	MessageValidation = "Validation failed"
	MessageConflict   = "A record with this value already exists."
	MessageUnique     = "This value must be unique."
	MessageDatabase   = "Database error"
	MessageNotFound   = "Resource not found"
	MessageInternal   = "Internal server error"
)

// AppError is an error that already knows its HTTP status.
type AppError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func (e *AppError) Error() string {
	return e.Message
}

// Response is the classified form of an error.
type Response struct {
	Status  int
	Message string
	Errors  map[string]string
}

// Internal reports whether the caller must only see a generic message.
func (r Response) Internal() bool {
	return r.Status >= http.StatusInternalServerError
}

var uniqueKeyPattern = regexp.MustCompile(`Key \(([^)]+)\)=`)

func Classify(err error) Response {
	var (
		validationErrs validation.Errors
		appErr         *AppError
		pgErr          *pgconn.PgError
	)

	switch {
	case err == nil:
		return Response{Status: http.StatusOK, Errors: map[string]string{}}
	case errors.As(err, &validationErrs):
		return Response{
			Status:  http.StatusBadRequest,
			Message: MessageValidation,
			Errors:  copyErrors(validationErrs),
		}
	case errors.As(err, &pgErr):
		if pgErr.Code == uniqueViolation {
			fields := map[string]string{}
			for _, column := range uniqueColumns(pgErr) {
				fields[column] = MessageUnique
			}
			return Response{Status: http.StatusConflict, Message: MessageConflict, Errors: fields}
		}
		return Response{
			Status:  http.StatusBadRequest,
			Message: MessageDatabase,
			Errors:  map[string]string{"database": databaseReason(pgErr.Code)},
		}
	case errors.Is(err, pgx.ErrNoRows):
		return Response{Status: http.StatusNotFound, Message: MessageNotFound, Errors: map[string]string{}}
	case errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError:
		return Response{Status: appErr.Status, Message: appErr.Message, Errors: copyErrors(appErr.Errors)}
	default:
		return Response{Status: http.StatusInternalServerError, Message: MessageInternal, Errors: map[string]string{}}
	}
}

func uniqueColumns(pgErr *pgconn.PgError) []string {
	if match := uniqueKeyPattern.FindStringSubmatch(pgErr.Detail); match != nil {
		columns := strings.Split(match[1], ",")
		for i := range columns {
			columns[i] = strings.TrimSpace(columns[i])
		}
		return columns
	}
	if pgErr.ColumnName != "" {
		return []string{pgErr.ColumnName}
	}
	if pgErr.ConstraintName != "" {
		return []string{pgErr.ConstraintName}
	}
	return []string{"value"}
}

func databaseReason(code string) string {
	switch code {
	case "23503":
		return "Referenced record does not exist or is still in use"
	case "23514":
		return "Value is outside the allowed range"
	case "23502":
		return "A required value is missing"
	case "22P02":
		return "Value has an invalid format"
	default:
		return "The request could not be applied"
	}
}

func copyErrors(source map[string]string) map[string]string {
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}
