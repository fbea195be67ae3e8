package apierror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const RequestIDKey = "requestid"

// Handler is the application's fiber ErrorHandler. Validation failures
// become 400, fiber errors keep their status, anything else is logged and
// answered with a 500.
func Handler(log zerolog.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(ApiValidationErrorResponse{
				ApiResponse: NewApiResponse(fiber.StatusBadRequest, ""),
				Errors:      verr.Errors,
			})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError {
			return c.Status(ferr.Code).JSON(NewApiResponse(ferr.Code, ferr.Message))
		}

		code := fiber.StatusInternalServerError
		if ferr != nil {
			code = ferr.Code
		}
		traceID, _ := c.Locals(RequestIDKey).(string)

		log.Error().
			Err(err).
			Str("request_id", traceID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")

		body := ApiException{
			ApiResponse: NewApiResponse(code, ""),
			TraceID:     traceID,
		}
		if !production {
			body.Details = err.Error()
		}
		return c.Status(code).JSON(body)
	}
}
