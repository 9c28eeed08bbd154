package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ASMHandler serves the customer portal: every endpoint is scoped to the
// authenticated principal's own complaints.
type ASMHandler struct {
	service *service.ComplaintService
}

// NewASMHandler constructs handler.
func NewASMHandler(complaintService *service.ComplaintService) *ASMHandler {
	return &ASMHandler{service: complaintService}
}

// MyComplaints GET /api/asm/my-complaints.
func (h *ASMHandler) MyComplaints(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseComplaintQuery(c)
	filter.UserID = &principal.User.ID

	complaints, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// MyStats GET /api/asm/my-stats.
func (h *ASMHandler) MyStats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.service.Stats(c.Context(), &principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// CreateComplaint POST /api/asm/complaints. Ownership is forced to the
// caller regardless of the payload.
func (h *ASMHandler) CreateComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := complaintCreateInput(req)
	if err != nil {
		return err
	}
	input.UserID = &principal.User.ID

	complaint, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}
