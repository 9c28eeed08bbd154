package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/export"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
)

// ExportsHandler streams xlsx report downloads.
type ExportsHandler struct {
	service *service.ComplaintService
}

// NewExportsHandler constructs handler.
func NewExportsHandler(complaintService *service.ComplaintService) *ExportsHandler {
	return &ExportsHandler{service: complaintService}
}

// ExportAll POST /api/complaints/export-all.
func (h *ExportsHandler) ExportAll(c *fiber.Ctx) error {
	complaints, err := h.service.List(c.Context(), repository.ComplaintFilter{Limit: 10000})
	if err != nil {
		return err
	}
	buf, err := export.ComplaintsWorkbook(complaints)
	if err != nil {
		return err
	}
	return sendWorkbook(c, export.AttachmentName("complaints", time.Now()), buf.Bytes())
}

// ExportAnalytics POST /api/complaints/export-analytics.
func (h *ExportsHandler) ExportAnalytics(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), nil)
	if err != nil {
		return err
	}
	trends, err := h.service.Trends(c.Context(), 30)
	if err != nil {
		return err
	}
	buf, err := export.AnalyticsWorkbook(stats, trends)
	if err != nil {
		return err
	}
	return sendWorkbook(c, export.AttachmentName("complaint-analytics", time.Now()), buf.Bytes())
}

func sendWorkbook(c *fiber.Ctx, filename string, payload []byte) error {
	c.Set(fiber.HeaderContentType, export.XLSXContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}
