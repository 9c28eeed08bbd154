package worker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/service"
)

func TestRenderSummary(t *testing.T) {
	stats := &service.ComplaintStats{Total: 10, New: 4, InProgress: 3, Resolved: 2, Closed: 1, ResolvedToday: 2}
	trends := []service.TrendEntry{
		{Date: "2026-08-27", New: 3, Resolved: 1},
		{Date: "2026-08-28", New: 1, Resolved: 1},
	}

	body := renderSummary(stats, trends)

	assert.Contains(t, body, "Total complaints: 10")
	assert.Contains(t, body, "Resolved today: 2")
	assert.Contains(t, body, "2026-08-27")
	assert.Contains(t, body, "2026-08-28")
	assert.Equal(t, 2, strings.Count(body, "resolved:"))
}
