package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/analytics"
	"github.com/Appy-Anand/obeta-project/internal/application/dto"
)

// MartsHandler serves the KPI mart endpoints.
type MartsHandler struct {
	uc *analytics.MartsUsecase
}

// NewMartsHandler builds the handler.
func NewMartsHandler(uc *analytics.MartsUsecase) *MartsHandler {
	return &MartsHandler{uc: uc}
}

func parseMartQuery(c *fiber.Ctx) (dto.MartQuery, error) {
	var q dto.MartQuery
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	return q, nil
}

// PickVolume godoc
// @Summary      Daily total pick volume
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Start date (YYYY-MM-DD)"
// @Param        to          query  string  false  "End date (YYYY-MM-DD)"
// @Param        drill_down  query  string  false  "product_group | origin | warehouse_section"
// @Success      200  {array}   dto.DailyVolumeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/pick-volume [get]
func (h *MartsHandler) PickVolume(c *fiber.Ctx) error {
	q, err := parseMartQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	out, err := h.uc.PickVolume(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OrdersProcessed godoc
// @Summary      Daily distinct orders processed, zero-filled over the calendar
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Start date (YYYY-MM-DD)"
// @Param        to          query  string  false  "End date (YYYY-MM-DD)"
// @Param        drill_down  query  string  false  "product_group | origin | warehouse_section"
// @Success      200  {array}   dto.DailyOrdersResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/orders-processed [get]
func (h *MartsHandler) OrdersProcessed(c *fiber.Ctx) error {
	q, err := parseMartQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	out, err := h.uc.OrdersProcessed(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PickErrors godoc
// @Summary      Daily pick errors against total picks
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Start date (YYYY-MM-DD)"
// @Param        to          query  string  false  "End date (YYYY-MM-DD)"
// @Param        drill_down  query  string  false  "product_group | origin | warehouse_section"
// @Success      200  {array}   dto.ErrorRateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/pick-errors [get]
func (h *MartsHandler) PickErrors(c *fiber.Ctx) error {
	q, err := parseMartQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	out, err := h.uc.PickErrors(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Most picked products per week
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        top_n       query  int     false  "Rank depth (default 10, max 100)"
// @Param        drill_down  query  string  false  "product_group | origin | warehouse_section"
// @Success      200  {array}   dto.TopProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/top-products [get]
func (h *MartsHandler) TopProducts(c *fiber.Ctx) error {
	var q dto.TopProductsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	out, err := h.uc.TopProducts(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AvgProductsPerOrder godoc
// @Summary      Weekly average of distinct products per order
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.AvgProductsResponse
// @Router       /api/marts/avg-products-per-order [get]
func (h *MartsHandler) AvgProductsPerOrder(c *fiber.Ctx) error {
	out, err := h.uc.AvgProductsPerOrder(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OrderCountByType godoc
// @Summary      Weekly order volume split into store and customer orders
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OrderTypeResponse
// @Router       /api/marts/order-count-by-type [get]
func (h *MartsHandler) OrderCountByType(c *fiber.Ctx) error {
	out, err := h.uc.OrderCountByType(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// WarehouseUtilization godoc
// @Summary      Weekly pick volume share per warehouse section
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UtilizationResponse
// @Router       /api/marts/warehouse-utilization [get]
func (h *MartsHandler) WarehouseUtilization(c *fiber.Ctx) error {
	out, err := h.uc.WarehouseUtilization(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PickThroughput godoc
// @Summary      Pick throughput: hourly series, or weekly averages per dimension
// @Description  Without drill_down returns the hourly pick volume series.
//               With drill_down returns weekly averages per dimension value.
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Start date (YYYY-MM-DD), hourly series only"
// @Param        to          query  string  false  "End date (YYYY-MM-DD), hourly series only"
// @Param        drill_down  query  string  false  "product_group | origin | warehouse_section"
// @Success      200  {array}   dto.HourlyThroughputResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/pick-throughput [get]
func (h *MartsHandler) PickThroughput(c *fiber.Ctx) error {
	q, err := parseMartQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	if q.DrillDown != "" {
		out, err := h.uc.WeeklyThroughput(c.Context(), q.DrillDown)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	out, err := h.uc.HourlyThroughput(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BinnedOrderVolume godoc
// @Summary      Daily order counts per volume bin, zero-filled
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Start date (YYYY-MM-DD)"
// @Param        to    query  string  false  "End date (YYYY-MM-DD)"
// @Success      200  {array}   dto.BinnedVolumeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/binned-order-volume [get]
func (h *MartsHandler) BinnedOrderVolume(c *fiber.Ctx) error {
	q, err := parseMartQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	out, err := h.uc.BinnedOrderVolume(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ZScoreDistribution godoc
// @Summary      Per-order volume z-scores within an aggregation period
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "week | month | quarter | year_half (default week)"
// @Success      200  {object}  dto.ZScoreDistribution
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/marts/zscore-distribution [get]
func (h *MartsHandler) ZScoreDistribution(c *fiber.Ctx) error {
	var q dto.ZScoreQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "invalid query parameters"})
	}
	out, err := h.uc.ZScores(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OrderMix godoc
// @Summary      Warehouse section contribution per order
// @Tags         marts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OrderMixResponse
// @Router       /api/marts/order-mix [get]
func (h *MartsHandler) OrderMix(c *fiber.Ctx) error {
	out, err := h.uc.OrderMix(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
