package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusNew        ComplaintStatus = "new"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// ComplaintPriority enumerates triage urgency.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// FinalStatus is the coarse open/closed flag, distinct from Status.
type FinalStatus string

const (
	FinalStatusOpen   FinalStatus = "Open"
	FinalStatusClosed FinalStatus = "Closed"
)

// Complaint is the central aggregate: a customer complaint moving through
// triage on the kanban board.
type Complaint struct {
	ID                   string
	YearlySequenceNumber int
	Date                 time.Time
	ComplaintSource      string
	PlaceOfSupply        string
	ReceivingLocation    string
	PartyName            string
	ProductName          string
	ComplaintType        string
	AreaOfConcern        string
	SubCategory          string
	VOC                  string
	Status               ComplaintStatus
	Priority             ComplaintPriority
	FinalStatus          FinalStatus
	DateOfResolution     *time.Time
	ClosureDate          *time.Time
	UserID               *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Year returns the calendar year the sequence number is bucketed by.
func (c *Complaint) Year() int {
	return c.Date.Year()
}

var statusTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusNew:        {ComplaintStatusInProgress},
	ComplaintStatusInProgress: {ComplaintStatusResolved},
	ComplaintStatusResolved:   {ComplaintStatusClosed, ComplaintStatusInProgress},
	ComplaintStatusClosed:     {ComplaintStatusInProgress},
}

// IsValidStatus reports whether s is a known lifecycle state.
func IsValidStatus(s ComplaintStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsValidTransition reports whether current -> next is a legal edge of the
// lifecycle graph. Reopening (resolved/closed -> in-progress) is legal.
func IsValidTransition(current, next ComplaintStatus) bool {
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsValidPriority reports whether p is a known priority.
func IsValidPriority(p ComplaintPriority) bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}
