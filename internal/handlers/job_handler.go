package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hirehub/internal/middleware"
	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/services"
)

const defaultSimilarLimit = 5

type JobHandler struct {
	jobService services.JobService
}

func NewJobHandler(jobService services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	page, limit, err := services.ParsePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		return err
	}

	result, err := h.jobService.List(c.UserContext(), models.JobListQuery{
		Page:       page,
		Limit:      limit,
		Search:     strings.TrimSpace(c.Query("search")),
		Department: strings.TrimSpace(c.Query("department")),
		Location:   strings.TrimSpace(c.Query("location")),
		Type:       strings.TrimSpace(c.Query("type")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	job, err := h.jobService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}

	job, err := h.jobService.Create(c.UserContext(), middleware.Principal(c), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// HandleUpdate handles PUT /jobs/:id
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	version, err := expectedVersion(c)
	if err != nil {
		return err
	}

	var req models.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}

	job, err := h.jobService.Update(c.UserContext(), middleware.Principal(c), c.Params("id"), version, &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	version, err := expectedVersion(c)
	if err != nil {
		return err
	}

	if err := h.jobService.Delete(c.UserContext(), middleware.Principal(c), c.Params("id"), version); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{},
	})
}

// HandleStats handles GET /jobs/stats/overview
func (h *JobHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.jobService.Stats(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// HandleSimilar handles GET /jobs/:id/similar
func (h *JobHandler) HandleSimilar(c *fiber.Ctx) error {
	limit := defaultSimilarLimit
	if raw := c.Query("limit"); raw != "" {
		_, parsed, err := services.ParsePagination("", raw)
		if err != nil {
			return err
		}
		limit = parsed
	}

	similar, err := h.jobService.Similar(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    similar,
	})
}
