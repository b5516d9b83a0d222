package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/dto"
	"github.com/Appy-Anand/obeta-project/internal/application/pipeline"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

// PipelineHandler serves the pipeline control endpoints (operator only).
type PipelineHandler struct {
	uc *pipeline.Usecase
}

// NewPipelineHandler builds the handler.
func NewPipelineHandler(uc *pipeline.Usecase) *PipelineHandler {
	return &PipelineHandler{uc: uc}
}

func toRunResponse(run *entity.PipelineRun) dto.RunResponse {
	return dto.RunResponse{
		ID:         run.ID,
		Phase:      run.Phase,
		Status:     run.Status,
		RowCounts:  run.RowCounts,
		Anomalies:  run.Anomalies,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Error,
	}
}

// StartRun godoc
// @Summary      Start a pipeline run
// @Description  Starts the requested phase asynchronously. Only one run may
//               execute at a time; concurrent starts get 409.
// @Tags         pipeline
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartRunRequest  true  "Phase: stage | curate | marts | run"
// @Success      202  {object}  dto.RunResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pipeline/runs [post]
func (h *PipelineHandler) StartRun(c *fiber.Ctx) error {
	var req dto.StartRunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid JSON body"})
	}
	if req.Phase == "" {
		req.Phase = entity.PhaseFull
	}
	switch req.Phase {
	case entity.PhaseStage, entity.PhaseCurate, entity.PhaseMarts, entity.PhaseFull:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "phase must be one of stage, curate, marts, run",
		})
	}

	run, err := h.uc.StartAsync(req.Phase)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(toRunResponse(run))
}

// ListRuns godoc
// @Summary      List recent pipeline runs
// @Tags         pipeline
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Max runs to return (default 20, max 100)"
// @Success      200  {array}  dto.RunResponse
// @Router       /api/pipeline/runs [get]
func (h *PipelineHandler) ListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	runs, err := h.uc.ListRuns(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunResponse(&runs[i]))
	}
	return c.JSON(out)
}

// GetRun godoc
// @Summary      Fetch one pipeline run
// @Tags         pipeline
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Run ID"
// @Success      200  {object}  dto.RunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pipeline/runs/{id} [get]
func (h *PipelineHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.uc.GetRun(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRunResponse(run))
}
