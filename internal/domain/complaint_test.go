package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransitionGraph(t *testing.T) {
	legal := map[ComplaintStatus][]ComplaintStatus{
		ComplaintStatusNew:        {ComplaintStatusInProgress},
		ComplaintStatusInProgress: {ComplaintStatusResolved},
		ComplaintStatusResolved:   {ComplaintStatusClosed, ComplaintStatusInProgress},
		ComplaintStatusClosed:     {ComplaintStatusInProgress},
	}
	all := []ComplaintStatus{ComplaintStatusNew, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range legal[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, IsValidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(ComplaintStatusNew))
	assert.True(t, IsValidStatus(ComplaintStatusClosed))
	assert.False(t, IsValidStatus(ComplaintStatus("escalated")))
	assert.False(t, IsValidStatus(ComplaintStatus("")))
}

func TestIsValidPriority(t *testing.T) {
	assert.True(t, IsValidPriority(ComplaintPriorityLow))
	assert.True(t, IsValidPriority(ComplaintPriorityHigh))
	assert.False(t, IsValidPriority(ComplaintPriority("urgent")))
}

func TestYearFollowsComplaintDate(t *testing.T) {
	c := Complaint{Date: time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, 2024, c.Year())

	c.Date = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, c.Year())
}

func TestOptionsVocabularies(t *testing.T) {
	opts := Options()

	assert.Len(t, opts.Statuses, 4)
	assert.Len(t, opts.Priorities, 3)
	assert.NotEmpty(t, opts.Sources)
	assert.NotEmpty(t, opts.ComplaintTypes)
	assert.Equal(t, []string{"Application", "Commercial", "Logistics", "Quality"}, opts.AreasOfConcern)

	for _, area := range opts.AreasOfConcern {
		assert.NotEmpty(t, opts.SubCategories[area], "area %s has no sub-categories", area)
	}
}

func TestSubCategoriesFor(t *testing.T) {
	assert.Contains(t, SubCategoriesFor("Quality"), "Contamination")
	assert.Nil(t, SubCategoriesFor("Unknown Area"))
}
