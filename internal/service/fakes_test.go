package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// fakeComplaintRepo mirrors the SQL repository's semantics in memory,
// including the per-year sequence counter.
type fakeComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	sequences  map[int]int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints: make(map[string]*domain.Complaint),
		sequences:  make(map[int]int),
	}
}

func (f *fakeComplaintRepo) Create(_ context.Context, c *domain.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sequences[c.Year()]++
	c.YearlySequenceNumber = f.sequences[c.Year()]
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	f.complaints[c.ID] = &clone
	return nil
}

func (f *fakeComplaintRepo) Update(_ context.Context, c *domain.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.complaints[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	c.UpdatedAt = time.Now()
	clone := *c
	f.complaints[c.ID] = &clone
	return nil
}

func (f *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (f *fakeComplaintRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.complaints, id)
	return nil
}

func (f *fakeComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Complaint
	for _, c := range f.complaints {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		if filter.UserID != nil && (c.UserID == nil || *c.UserID != *filter.UserID) {
			continue
		}
		if filter.SearchTerm != nil && !matchesSearch(c, *filter.SearchTerm) {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func matchesSearch(c *domain.Complaint, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	for _, field := range []string{c.PartyName, c.ComplaintType, c.VOC, string(c.Status)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (f *fakeComplaintRepo) CountsByStatus(_ context.Context, userID *string) (repository.StatusCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var counts repository.StatusCounts
	for _, c := range f.complaints {
		if userID != nil && (c.UserID == nil || *c.UserID != *userID) {
			continue
		}
		switch c.Status {
		case domain.ComplaintStatusNew:
			counts.New++
		case domain.ComplaintStatusInProgress:
			counts.InProgress++
		case domain.ComplaintStatusResolved:
			counts.Resolved++
		case domain.ComplaintStatusClosed:
			counts.Closed++
		}
		counts.Total++
	}
	return counts, nil
}

func (f *fakeComplaintRepo) CountResolvedBetween(_ context.Context, from, to time.Time, userID *string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, c := range f.complaints {
		if userID != nil && (c.UserID == nil || *c.UserID != *userID) {
			continue
		}
		if c.DateOfResolution == nil {
			continue
		}
		if !c.DateOfResolution.Before(from) && c.DateOfResolution.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeComplaintRepo) CountCreatedByDay(_ context.Context, from, to time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[string]int)
	for _, c := range f.complaints {
		if !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			result[c.CreatedAt.Format("2006-01-02")]++
		}
	}
	return result, nil
}

func (f *fakeComplaintRepo) CountResolvedByDay(_ context.Context, from, to time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[string]int)
	for _, c := range f.complaints {
		if c.DateOfResolution == nil {
			continue
		}
		if !c.DateOfResolution.Before(from) && c.DateOfResolution.Before(to) {
			result[c.DateOfResolution.Format("2006-01-02")]++
		}
	}
	return result, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.ComplaintHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.ComplaintHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.ChangedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ComplaintHistory
	for _, entry := range f.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	clone := *n
	f.notifications = append([]*domain.Notification{&clone}, f.notifications...)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) ListUnreadByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}
