package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/report"
)

// ReportHandler serves the weekly PDF report (operator only).
type ReportHandler struct {
	uc *report.Usecase
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *report.Usecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Weekly godoc
// @Summary      Weekly operations report as PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        week  query  string  false  "Week label YYYY_WW; default: latest week with picks"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/weekly [get]
func (h *ReportHandler) Weekly(c *fiber.Ctx) error {
	pdf, week, err := h.uc.Weekly(c.Context(), c.Query("week"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="weekly_report_%s.pdf"`, week))
	return c.Send(pdf)
}
