package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService coordinates complaint workflows: validation, lifecycle
// transitions, audit history and event publication.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	dispatcher events.Dispatcher
	validate   *validator.Validate
	now        func() time.Time
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes the submission payload.
type ComplaintCreateInput struct {
	Date              time.Time
	ComplaintSource   string `validate:"required"`
	PlaceOfSupply     string `validate:"required"`
	ReceivingLocation string `validate:"required"`
	PartyName         string `validate:"required"`
	ProductName       string
	ComplaintType     string `validate:"required"`
	AreaOfConcern     string
	SubCategory       string
	VOC               string
	Priority          domain.ComplaintPriority
	UserID            *string
}

// ComplaintUpdateInput merges permitted fields; nil means "leave unchanged".
// The yearly sequence number is never part of an update.
type ComplaintUpdateInput struct {
	ComplaintSource   *string
	PlaceOfSupply     *string
	ReceivingLocation *string
	PartyName         *string
	ProductName       *string
	ComplaintType     *string
	AreaOfConcern     *string
	SubCategory       *string
	VOC               *string
	Status            *domain.ComplaintStatus
	Priority          *domain.ComplaintPriority
	ChangedBy         string
	Notes             string
}

// ComplaintStats aggregates dashboard counters.
type ComplaintStats struct {
	Total         int `json:"total"`
	New           int `json:"new"`
	InProgress    int `json:"inProgress"`
	Resolved      int `json:"resolved"`
	Closed        int `json:"closed"`
	ResolvedToday int `json:"resolvedToday"`
}

// TrendEntry is one calendar day of activity.
type TrendEntry struct {
	Date     string `json:"date"`
	New      int    `json:"new"`
	Resolved int    `json:"resolved"`
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// Create validates the submission and persists a new complaint. Status starts
// at "new"; the yearly sequence number is claimed atomically inside the
// repository transaction.
func (s *ComplaintService) Create(ctx context.Context, input ComplaintCreateInput) (*domain.Complaint, error) {
	// Trim first so a whitespace-only field fails the required check.
	input.ComplaintSource = strings.TrimSpace(input.ComplaintSource)
	input.PlaceOfSupply = strings.TrimSpace(input.PlaceOfSupply)
	input.ReceivingLocation = strings.TrimSpace(input.ReceivingLocation)
	input.PartyName = strings.TrimSpace(input.PartyName)
	input.ProductName = strings.TrimSpace(input.ProductName)
	input.ComplaintType = strings.TrimSpace(input.ComplaintType)
	input.AreaOfConcern = strings.TrimSpace(input.AreaOfConcern)
	input.SubCategory = strings.TrimSpace(input.SubCategory)
	input.VOC = strings.TrimSpace(input.VOC)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationDetails(err)
	}
	if input.Priority != "" && !domain.IsValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{
			"priority": "must be one of low, medium, high",
		})
	}

	complaint := &domain.Complaint{
		Date:              input.Date,
		ComplaintSource:   input.ComplaintSource,
		PlaceOfSupply:     input.PlaceOfSupply,
		ReceivingLocation: input.ReceivingLocation,
		PartyName:         input.PartyName,
		ProductName:       input.ProductName,
		ComplaintType:     input.ComplaintType,
		AreaOfConcern:     input.AreaOfConcern,
		SubCategory:       input.SubCategory,
		VOC:               input.VOC,
		Status:            domain.ComplaintStatusNew,
		Priority:          input.Priority,
		FinalStatus:       domain.FinalStatusOpen,
		UserID:            input.UserID,
	}
	if complaint.Date.IsZero() {
		complaint.Date = s.now()
	}
	if complaint.Priority == "" {
		complaint.Priority = domain.ComplaintPriorityMedium
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintCreatedPayload{
			YearlySequenceNumber: complaint.YearlySequenceNumber,
			PartyName:            complaint.PartyName,
			ComplaintType:        complaint.ComplaintType,
			Priority:             complaint.Priority,
			OwnerUserID:          complaint.UserID,
		},
	})
	return complaint, nil
}

// Update merges permitted fields. Status changes are restricted to the
// lifecycle graph and append an audit entry.
func (s *ComplaintService) Update(ctx context.Context, id string, input ComplaintUpdateInput) (*domain.Complaint, error) {
	complaint, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	oldPriority := complaint.Priority

	if input.Status != nil && *input.Status != complaint.Status {
		next := *input.Status
		if !domain.IsValidStatus(next) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{
				"status": "must be one of new, in-progress, resolved, closed",
			})
		}
		if !domain.IsValidTransition(complaint.Status, next) {
			return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
				"status": string(complaint.Status) + " cannot move to " + string(next),
			})
		}
		s.applyTransition(complaint, next)
	}
	if input.Priority != nil && *input.Priority != complaint.Priority {
		if !domain.IsValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{
				"priority": "must be one of low, medium, high",
			})
		}
		complaint.Priority = *input.Priority
	}

	applyString(&complaint.ComplaintSource, input.ComplaintSource)
	applyString(&complaint.PlaceOfSupply, input.PlaceOfSupply)
	applyString(&complaint.ReceivingLocation, input.ReceivingLocation)
	applyString(&complaint.PartyName, input.PartyName)
	applyString(&complaint.ProductName, input.ProductName)
	applyString(&complaint.ComplaintType, input.ComplaintType)
	applyString(&complaint.AreaOfConcern, input.AreaOfConcern)
	applyString(&complaint.SubCategory, input.SubCategory)
	applyString(&complaint.VOC, input.VOC)

	if err := s.complaints.Update(ctx, complaint); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}

	if complaint.Status != oldStatus {
		entry := &domain.ComplaintHistory{
			ComplaintID: complaint.ID,
			FromStatus:  oldStatus,
			ToStatus:    complaint.Status,
			ChangedBy:   input.ChangedBy,
			Notes:       input.Notes,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintStatusChanged,
			ComplaintID: complaint.ID,
			ActorID:     input.ChangedBy,
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus:   oldStatus,
				NewStatus:   complaint.Status,
				Notes:       input.Notes,
				OwnerUserID: complaint.UserID,
			},
		})
	}
	if complaint.Priority != oldPriority {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintPriorityChanged,
			ComplaintID: complaint.ID,
			ActorID:     input.ChangedBy,
			Payload: events.ComplaintPriorityChangedPayload{
				OldPriority: oldPriority,
				NewPriority: complaint.Priority,
				OwnerUserID: complaint.UserID,
			},
		})
	}
	return complaint, nil
}

// Get returns a single complaint.
func (s *ComplaintService) Get(ctx context.Context, id string) (*domain.Complaint, error) {
	return s.get(ctx, id)
}

// Delete removes a complaint. Exists for completeness; not part of the
// normal flow.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	if err := s.complaints.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// List applies exact status/priority filters, owner scoping and the
// case-insensitive substring search.
func (s *ComplaintService) List(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	return s.complaints.ListWithFilter(ctx, filter)
}

// History returns the chronological audit trail for a complaint.
func (s *ComplaintService) History(ctx context.Context, id string) ([]domain.ComplaintHistory, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByComplaint(ctx, id)
}

// Stats returns dashboard counters; userID scopes them to one owner.
// Total always equals the sum of the per-status counts.
func (s *ComplaintService) Stats(ctx context.Context, userID *string) (*ComplaintStats, error) {
	counts, err := s.complaints.CountsByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	dayStart := startOfDay(s.now())
	resolvedToday, err := s.complaints.CountResolvedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1), userID)
	if err != nil {
		return nil, err
	}
	return &ComplaintStats{
		Total:         counts.Total,
		New:           counts.New,
		InProgress:    counts.InProgress,
		Resolved:      counts.Resolved,
		Closed:        counts.Closed,
		ResolvedToday: resolvedToday,
	}, nil
}

// Trends returns one entry per consecutive calendar day ending today, each
// carrying real created/resolved counts for that day.
func (s *ComplaintService) Trends(ctx context.Context, days int) ([]TrendEntry, error) {
	if days < 1 {
		return nil, apperrors.NewValidationError("days must be at least 1", map[string]any{
			"days": "must be a positive integer",
		})
	}
	if days > 366 {
		days = 366
	}

	end := startOfDay(s.now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	created, err := s.complaints.CountCreatedByDay(ctx, start, end)
	if err != nil {
		return nil, err
	}
	resolved, err := s.complaints.CountResolvedByDay(ctx, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]TrendEntry, 0, days)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		entries = append(entries, TrendEntry{
			Date:     key,
			New:      created[key],
			Resolved: resolved[key],
		})
	}
	return entries, nil
}

// get rejects non-uuid ids up front; such a row cannot exist and the literal
// would be rejected by the uuid column before the lookup misses.
func (s *ComplaintService) get(ctx context.Context, id string) (*domain.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}
	return complaint, nil
}

// applyTransition stamps resolution/closure metadata for the new state.
// Reopening clears them and flips the coarse flag back to Open.
func (s *ComplaintService) applyTransition(complaint *domain.Complaint, next domain.ComplaintStatus) {
	now := s.now()
	switch next {
	case domain.ComplaintStatusResolved:
		complaint.DateOfResolution = &now
	case domain.ComplaintStatusClosed:
		complaint.ClosureDate = &now
		complaint.FinalStatus = domain.FinalStatusClosed
		if complaint.DateOfResolution == nil {
			complaint.DateOfResolution = &now
		}
	case domain.ComplaintStatusInProgress:
		complaint.DateOfResolution = nil
		complaint.ClosureDate = nil
		complaint.FinalStatus = domain.FinalStatusOpen
	}
	complaint.Status = next
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validationDetails flattens validator errors into the per-field details map
// the API surfaces.
func validationDetails(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fieldName(fe.Field())] = "failed on " + fe.Tag()
	}
	return apperrors.NewValidationError("missing or invalid fields", details)
}

func fieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
