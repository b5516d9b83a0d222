package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/dto"
	"github.com/Appy-Anand/obeta-project/internal/domain"
)

// respondError maps domain errors onto HTTP status codes with the uniform
// error body. Unknown errors become opaque 500s.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidDrillDown),
		errors.Is(err, domain.ErrInvalidWeek):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "resource not found",
		})
	case errors.Is(err, domain.ErrRunInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CONFLICT", Message: "a pipeline run is already in progress",
		})
	case errors.Is(err, domain.ErrSourceMissing):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "SOURCE_MISSING", Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "internal error",
		})
	}
}
