package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/service"
)

// SummaryWorker emails a periodic activity summary built from the complaint
// dashboard counters. One shot per tick, no retry on failure.
type SummaryWorker struct {
	complaints *service.ComplaintService
	mailer     *mail.Mailer
	cfg        config.SummaryConfig
	logger     *zap.Logger
	cron       *cron.Cron
}

// NewSummaryWorker builds the worker.
func NewSummaryWorker(complaints *service.ComplaintService, mailer *mail.Mailer, cfg config.SummaryConfig, logger *zap.Logger) *SummaryWorker {
	return &SummaryWorker{
		complaints: complaints,
		mailer:     mailer,
		cfg:        cfg,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start schedules the summary job. Returns an error only for a bad cron spec.
func (w *SummaryWorker) Start() error {
	_, err := w.cron.AddFunc(w.cfg.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		w.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule summary: %w", err)
	}
	w.cron.Start()
	w.logger.Info("summary worker started", zap.String("cron", w.cfg.CronSpec), zap.Int("recipients", len(w.cfg.Recipients)))
	return nil
}

// Stop halts the schedule and waits for a running job.
func (w *SummaryWorker) Stop() {
	<-w.cron.Stop().Done()
}

func (w *SummaryWorker) runOnce(ctx context.Context) {
	stats, err := w.complaints.Stats(ctx, nil)
	if err != nil {
		w.logger.Error("summary stats failed", zap.Error(err))
		return
	}
	trends, err := w.complaints.Trends(ctx, 7)
	if err != nil {
		w.logger.Error("summary trends failed", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Complaint activity summary %s", time.Now().Format("02 Jan 2006"))
	if err := w.mailer.Send(w.cfg.Recipients, subject, renderSummary(stats, trends)); err != nil {
		// failure already logged by the mailer; there is no retry path
		return
	}
}

func renderSummary(stats *service.ComplaintStats, trends []service.TrendEntry) string {
	var b strings.Builder
	b.WriteString("Complaint activity summary\n\n")
	fmt.Fprintf(&b, "Total complaints: %d\n", stats.Total)
	fmt.Fprintf(&b, "  New:          %d\n", stats.New)
	fmt.Fprintf(&b, "  In progress:  %d\n", stats.InProgress)
	fmt.Fprintf(&b, "  Resolved:     %d\n", stats.Resolved)
	fmt.Fprintf(&b, "  Closed:       %d\n", stats.Closed)
	fmt.Fprintf(&b, "Resolved today: %d\n\n", stats.ResolvedToday)

	b.WriteString("Last 7 days:\n")
	for _, entry := range trends {
		fmt.Fprintf(&b, "  %s  new: %-3d resolved: %d\n", entry.Date, entry.New, entry.Resolved)
	}
	return b.String()
}
