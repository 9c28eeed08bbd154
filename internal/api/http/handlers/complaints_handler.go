package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages the admin-facing complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := complaintCreateInput(req)
	if err != nil {
		return err
	}
	complaint, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	complaints, err := h.service.List(c.Context(), parseComplaintQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Update PATCH /api/complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.Update(c.Context(), c.Params("id"), service.ComplaintUpdateInput{
		ComplaintSource:   req.ComplaintSource,
		PlaceOfSupply:     req.PlaceOfSupply,
		ReceivingLocation: req.ReceivingLocation,
		PartyName:         req.PartyName,
		ProductName:       req.ProductName,
		ComplaintType:     req.ComplaintType,
		AreaOfConcern:     req.AreaOfConcern,
		SubCategory:       req.SubCategory,
		VOC:               req.VOC,
		Status:            req.Status,
		Priority:          req.Priority,
		ChangedBy:         req.ChangedBy,
		Notes:             req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Delete DELETE /api/complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /api/complaints/:id/history.
func (h *ComplaintsHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewComplaintHistoryResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /api/complaints/stats.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), nil)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Trends GET /api/complaints/trends/:days.
func (h *ComplaintsHandler) Trends(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Params("days"))
	if err != nil {
		return apperrors.NewValidationError("days must be an integer", nil)
	}
	entries, trendErr := h.service.Trends(c.Context(), days)
	if trendErr != nil {
		return trendErr
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Options GET /api/complaints/options.
func (h *ComplaintsHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.Options()})
}

func parseComplaintQuery(c *fiber.Ctx) repository.ComplaintFilter {
	filter := repository.ComplaintFilter{}
	if status := c.Query("status"); status != "" {
		s := domain.ComplaintStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := domain.ComplaintPriority(priority)
		filter.Priority = &p
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 100)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func complaintCreateInput(req dto.CreateComplaintRequest) (service.ComplaintCreateInput, error) {
	input := service.ComplaintCreateInput{
		ComplaintSource:   req.ComplaintSource,
		PlaceOfSupply:     req.PlaceOfSupply,
		ReceivingLocation: req.ReceivingLocation,
		PartyName:         req.PartyName,
		ProductName:       req.ProductName,
		ComplaintType:     req.ComplaintType,
		AreaOfConcern:     req.AreaOfConcern,
		SubCategory:       req.SubCategory,
		VOC:               req.VOC,
		Priority:          req.Priority,
		UserID:            req.UserID,
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return input, apperrors.NewValidationError("invalid date", map[string]any{
				"date": "must be formatted YYYY-MM-DD",
			})
		}
		input.Date = parsed
	}
	return input, nil
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return items
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
