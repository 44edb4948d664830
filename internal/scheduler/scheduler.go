package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/config"
	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/service/catalog"
	"github.com/mamadbah2/platecost/internal/service/reporting"
	"github.com/mamadbah2/platecost/internal/service/whatsapp"
)

const jobTimeout = 2 * time.Minute

// MarginReviewer finds recipes whose menu price misses the target margin.
type MarginReviewer interface {
	ReviewMargins(ctx context.Context) ([]models.MarginAlert, error)
}

// PriceListSyncer imports the ingredient price list.
type PriceListSyncer interface {
	SyncPriceList(ctx context.Context) (catalog.SyncResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reviewer     MarginReviewer
	syncer       PriceListSyncer
	reportingSvc *reporting.Service
	notifier     whatsapp.Notifier
	cfg          config.SchedulerConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewScheduler creates a new scheduler instance. syncer and notifier may be
// nil when the spreadsheet or WhatsApp integrations are not configured.
func NewScheduler(cfg config.SchedulerConfig, reviewer MarginReviewer, syncer PriceListSyncer, reportingSvc *reporting.Service, notifier whatsapp.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reviewer:     reviewer,
		syncer:       syncer,
		reportingSvc: reportingSvc,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
		now:          func() time.Time { return time.Now().In(loc) },
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.ReviewCronSchedule, s.job("margin review", s.RunMarginReview)); err != nil {
		return fmt.Errorf("schedule margin review %q: %w", s.cfg.ReviewCronSchedule, err)
	}

	if s.syncer != nil {
		if _, err := s.cron.AddFunc(s.cfg.SyncCronSchedule, s.job("price list sync", s.RunPriceSync)); err != nil {
			return fmt.Errorf("schedule price list sync %q: %w", s.cfg.SyncCronSchedule, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) job(name string, run func(context.Context) error) func() {
	return func() {
		s.logger.Info("running scheduled job", zap.String("job", name))
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job finished", zap.String("job", name))
	}
}

// RunMarginReview reviews margins, logs the result to the review sheet and
// notifies the manager when recipes fall short.
func (s *Scheduler) RunMarginReview(ctx context.Context) error {
	reviewedAt := s.now()

	alerts, err := s.reviewer.ReviewMargins(ctx)
	if err != nil {
		return fmt.Errorf("review margins: %w", err)
	}

	if err := s.reportingSvc.LogReview(ctx, alerts, reviewedAt); err != nil {
		s.logger.Warn("failed to log margin review", zap.Error(err))
	}

	if len(alerts) == 0 || s.notifier == nil {
		return nil
	}

	msg := models.Notification{Message: s.reportingSvc.FormatMarginSummary(alerts, reviewedAt)}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		return fmt.Errorf("send margin alerts: %w", err)
	}
	return nil
}

// RunPriceSync imports the price list.
func (s *Scheduler) RunPriceSync(ctx context.Context) error {
	if s.syncer == nil {
		return nil
	}
	result, err := s.syncer.SyncPriceList(ctx)
	if err != nil {
		return fmt.Errorf("sync price list: %w", err)
	}
	if len(result.Rejected) > 0 {
		s.logger.Warn("price list rows rejected", zap.Int("rejected", len(result.Rejected)))
	}
	return nil
}
