// Package apierror defines the JSON error bodies returned by the API and the
// fiber error handler that produces them.
package apierror

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ApiResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// NewApiResponse falls back to the default message for code when message is
// empty.
func NewApiResponse(code int, message string) ApiResponse {
	if message == "" {
		message = DefaultMessage(code)
	}
	return ApiResponse{StatusCode: code, Message: message}
}

// ApiException is the body of a 500. Details is only filled outside
// production.
type ApiException struct {
	ApiResponse
	Details string `json:"details,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

type ApiValidationErrorResponse struct {
	ApiResponse
	Errors []string `json:"errors"`
}

func DefaultMessage(code int) string {
	switch code {
	case 400:
		return "A bad request, you have made"
	case 401:
		return "Authorized, you are not"
	case 403:
		return "Forbidden, this resource is"
	case 404:
		return "Resource found, it was not"
	case 500:
		return "Errors are the path to the dark side. Errors lead to anger. Anger leads to hate. Hate leads to career change"
	}
	return utils.StatusMessage(code)
}

// ValidationError carries one message per invalid field. It is always
// rendered as a 400.
type ValidationError struct {
	Errors []string
}

func Validation(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, NewApiResponse(fiber.StatusNotFound, message).Message)
}

func Unauthorized() *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, DefaultMessage(fiber.StatusUnauthorized))
}
