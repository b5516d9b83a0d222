package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/auth"
	"github.com/Appy-Anand/obeta-project/internal/application/dto"
	"github.com/Appy-Anand/obeta-project/internal/domain"
)

// AuthHandler serves the operator token endpoint.
type AuthHandler struct {
	uc *auth.Usecase
}

// NewAuthHandler builds the handler.
func NewAuthHandler(uc *auth.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Token godoc
// @Summary      Issue an operator bearer token
// @Description  Validates the operator credentials and returns a signed JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  dto.TokenRequest  true  "Operator credentials"
// @Success      200  {object}  dto.TokenResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "invalid JSON body",
		})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "username and password required",
		})
	}

	resp, err := h.uc.Token(req)
	if errors.Is(err, domain.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "invalid credentials",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "could not issue token",
		})
	}
	return c.JSON(resp)
}
