package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/config"
	"github.com/farmovs/decanting/internal/service/export"
	"github.com/farmovs/decanting/internal/service/records"
)

// Scheduler manages the recurring maintenance work: purging records that
// outlived the bin retention window and, when configured, exporting records
// to the compliance spreadsheet.
type Scheduler struct {
	cron       *cron.Cron
	recordsSvc *records.Service
	exportSvc  *export.Service
	cfg        config.Config
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance. exportSvc may be nil when no
// spreadsheet is configured.
func NewScheduler(cfg config.Config, recordsSvc *records.Service, exportSvc *export.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New()

	return &Scheduler{
		cron:       c,
		recordsSvc: recordsSvc,
		exportSvc:  exportSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the maintenance job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Retention.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Retention.CronSchedule, s.runMaintenance)
	if err != nil {
		s.logger.Error("failed to schedule maintenance job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	retention := time.Duration(s.cfg.Retention.Days) * 24 * time.Hour
	purged, err := s.recordsSvc.PurgeExpired(ctx, retention)
	if err != nil {
		s.logger.Error("retention purge failed", zap.Error(err))
	} else {
		s.logger.Info("retention purge completed", zap.Int64("purged", purged))
	}

	if s.exportSvc == nil {
		return
	}

	appended, err := s.exportSvc.Export(ctx)
	if err != nil {
		s.logger.Error("scheduled sheet export failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled sheet export completed", zap.Int("appended", appended))
}
