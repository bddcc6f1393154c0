package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hirehub/internal/apperrors"
)

// ErrorHandler renders every error returned by a handler as
// {success:false, message}. Details of unexpected errors are logged, not sent.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
		})
	}

	resp := apperrors.Classify(err)
	if resp.Status >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"success": false,
		"message": resp.Message,
	}
	if len(resp.Fields) > 0 {
		body["errors"] = resp.Fields
	}
	var upstreamErr *apperrors.UpstreamError
	if resp.Status >= fiber.StatusInternalServerError || errors.As(err, &upstreamErr) {
		body["retryable"] = resp.Retryable
	}

	return c.Status(resp.Status).JSON(body)
}

func invalidPayload(err error) error {
	log.Printf("⚠️  Invalid request payload: %v\n", err)
	return apperrors.Validation("Invalid request payload")
}

// expectedVersion reads an optional If-Match header carrying the job version.
func expectedVersion(c *fiber.Ctx) (*int, error) {
	raw := strings.Trim(strings.TrimSpace(c.Get(fiber.HeaderIfMatch)), `"`)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return nil, apperrors.Validation("Invalid If-Match header",
			apperrors.FieldError{Field: "If-Match", Message: "must be a positive version number"})
	}
	return &v, nil
}
