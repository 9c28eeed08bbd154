package domain

import "time"

// ComplaintHistory is an immutable audit entry recording a status transition.
type ComplaintHistory struct {
	ID          string
	ComplaintID string
	FromStatus  ComplaintStatus
	ToStatus    ComplaintStatus
	ChangedBy   string
	Notes       string
	ChangedAt   time.Time
}
