package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/analytics"
)

// DashboardHandler serves the aggregated landing view.
type DashboardHandler struct {
	uc *analytics.DashboardUsecase
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *analytics.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Overall totals plus the latest week's top products and
//               warehouse section utilization.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
