package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sessions is the part of the session registry the scheduler maintains
type Sessions interface {
	Count() int
	DeleteExpired() int
}

// GaugeSetter receives the active session count
type GaugeSetter interface {
	SetActiveSessions(n int)
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron      *cron.Cron
	sessions  Sessions
	gauge     GaugeSetter
	sweepSpec string
	logger    *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(sessions Sessions, gauge GaugeSetter, sweepSpec string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		sessions:  sessions,
		gauge:     gauge,
		sweepSpec: sweepSpec,
		logger:    logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Drop sessions idle for longer than the TTL
	_, err := s.cron.AddFunc(s.sweepSpec, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to add session sweep job: %w", err)
	}

	// Every minute: refresh the active sessions gauge
	_, err = s.cron.AddFunc("@every 1m", func() {
		s.runGauge()
	})
	if err != nil {
		return fmt.Errorf("failed to add session gauge job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("sweep", s.sweepSpec).Info("Scheduler started")

	s.runGauge()

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runSweep executes the session sweep job
func (s *Scheduler) runSweep() {
	removed := s.sessions.DeleteExpired()
	s.logger.WithFields(logrus.Fields{
		"removed":   removed,
		"remaining": s.sessions.Count(),
	}).Debug("Session sweep completed")

	s.runGauge()
}

// runGauge publishes the current session count
func (s *Scheduler) runGauge() {
	if s.gauge == nil {
		return
	}
	s.gauge.SetActiveSessions(s.sessions.Count())
}
