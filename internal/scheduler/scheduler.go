package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/runlog"
)

// Scheduler runs the analysis cycle for a set of tickers on a cron spec.
type Scheduler struct {
	cron      *cron.Cron
	analyzer  interfaces.Analyzer
	tickers   []string
	retention int
	ctx       context.Context
}

func New(ctx context.Context, analyzer interfaces.Analyzer, tickers []string, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		analyzer:  analyzer,
		tickers:   tickers,
		retention: retentionDays,
		ctx:       ctx,
	}
}

// Register binds the analysis task and daily log maintenance to cron specs.
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	// log compression once a day after midnight
	if _, err := s.cron.AddFunc("0 30 0 * * *", s.maintenanceTask); err != nil {
		return fmt.Errorf("register maintenance task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started", "tickers", len(s.tickers))
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunNow executes the analysis task immediately.
func (s *Scheduler) RunNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	for _, ticker := range s.tickers {
		if s.ctx.Err() != nil {
			return
		}
		if _, err := s.analyzer.Run(s.ctx, ticker); err != nil {
			logger.ErrorWithErr(s.ctx, "Scheduled analysis failed", err, "ticker", ticker)
		}
	}
}

func (s *Scheduler) maintenanceTask() {
	if err := runlog.CompressOlder(s.retention); err != nil {
		logger.ErrorWithErr(s.ctx, "Run log compression failed", err)
	}
}
