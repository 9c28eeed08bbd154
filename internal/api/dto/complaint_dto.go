package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Date              string                   `json:"date"`
	ComplaintSource   string                   `json:"complaintSource"`
	PlaceOfSupply     string                   `json:"placeOfSupply"`
	ReceivingLocation string                   `json:"receivingLocation"`
	PartyName         string                   `json:"partyName"`
	ProductName       string                   `json:"productName"`
	ComplaintType     string                   `json:"complaintType"`
	AreaOfConcern     string                   `json:"areaOfConcern"`
	SubCategory       string                   `json:"subCategory"`
	VOC               string                   `json:"voc"`
	Priority          domain.ComplaintPriority `json:"priority"`
	UserID            *string                  `json:"userId"`
}

// UpdateComplaintRequest payload; absent fields stay unchanged.
type UpdateComplaintRequest struct {
	ComplaintSource   *string                   `json:"complaintSource"`
	PlaceOfSupply     *string                   `json:"placeOfSupply"`
	ReceivingLocation *string                   `json:"receivingLocation"`
	PartyName         *string                   `json:"partyName"`
	ProductName       *string                   `json:"productName"`
	ComplaintType     *string                   `json:"complaintType"`
	AreaOfConcern     *string                   `json:"areaOfConcern"`
	SubCategory       *string                   `json:"subCategory"`
	VOC               *string                   `json:"voc"`
	Status            *domain.ComplaintStatus   `json:"status"`
	Priority          *domain.ComplaintPriority `json:"priority"`
	ChangedBy         string                    `json:"changedBy"`
	Notes             string                    `json:"notes"`
}

// ComplaintResponse is the wire form of a complaint.
type ComplaintResponse struct {
	ID                   string                   `json:"id"`
	YearlySequenceNumber int                      `json:"yearlySequenceNumber"`
	Date                 string                   `json:"date"`
	ComplaintSource      string                   `json:"complaintSource"`
	PlaceOfSupply        string                   `json:"placeOfSupply"`
	ReceivingLocation    string                   `json:"receivingLocation"`
	PartyName            string                   `json:"partyName"`
	ProductName          string                   `json:"productName"`
	ComplaintType        string                   `json:"complaintType"`
	AreaOfConcern        string                   `json:"areaOfConcern"`
	SubCategory          string                   `json:"subCategory"`
	VOC                  string                   `json:"voc"`
	Status               domain.ComplaintStatus   `json:"status"`
	Priority             domain.ComplaintPriority `json:"priority"`
	FinalStatus          domain.FinalStatus       `json:"finalStatus"`
	DateOfResolution     *time.Time               `json:"dateOfResolution"`
	ClosureDate          *time.Time               `json:"closureDate"`
	UserID               *string                  `json:"userId"`
	CreatedAt            time.Time                `json:"complaintCreation"`
	UpdatedAt            time.Time                `json:"updatedAt"`
}

// ComplaintHistoryResponse is one audit entry.
type ComplaintHistoryResponse struct {
	ID          string                 `json:"id"`
	ComplaintID string                 `json:"complaintId"`
	FromStatus  domain.ComplaintStatus `json:"fromStatus"`
	ToStatus    domain.ComplaintStatus `json:"toStatus"`
	ChangedBy   string                 `json:"changedBy"`
	Notes       string                 `json:"notes"`
	ChangedAt   time.Time              `json:"changedAt"`
}

// NewComplaintResponse maps the domain model.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                   c.ID,
		YearlySequenceNumber: c.YearlySequenceNumber,
		Date:                 c.Date.Format("2006-01-02"),
		ComplaintSource:      c.ComplaintSource,
		PlaceOfSupply:        c.PlaceOfSupply,
		ReceivingLocation:    c.ReceivingLocation,
		PartyName:            c.PartyName,
		ProductName:          c.ProductName,
		ComplaintType:        c.ComplaintType,
		AreaOfConcern:        c.AreaOfConcern,
		SubCategory:          c.SubCategory,
		VOC:                  c.VOC,
		Status:               c.Status,
		Priority:             c.Priority,
		FinalStatus:          c.FinalStatus,
		DateOfResolution:     c.DateOfResolution,
		ClosureDate:          c.ClosureDate,
		UserID:               c.UserID,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

// NewComplaintHistoryResponse maps one audit entry.
func NewComplaintHistoryResponse(entry domain.ComplaintHistory) ComplaintHistoryResponse {
	return ComplaintHistoryResponse{
		ID:          entry.ID,
		ComplaintID: entry.ComplaintID,
		FromStatus:  entry.FromStatus,
		ToStatus:    entry.ToStatus,
		ChangedBy:   entry.ChangedBy,
		Notes:       entry.Notes,
		ChangedAt:   entry.ChangedAt,
	}
}
