package scheduler

import (
	"domain-portfolio/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper is the job the scheduler runs on every tick
type Sweeper interface {
	CheckAllDomains() (services.SweepResult, error)
}

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	log     *logrus.Entry
}

// NewScheduler creates a new scheduler
func NewScheduler(sweeper Sweeper) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		log:     logrus.WithField("component", "scheduler"),
	}
}

// Start registers the renewal sweep on the given cron spec and starts the scheduler
func (s *Scheduler) Start(checkInterval string) error {
	_, err := s.cron.AddFunc(checkInterval, s.runSweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Infof("Scheduler started with interval: %s", checkInterval)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runSweep() {
	s.log.Debug("Starting scheduled renewal sweep...")
	result, err := s.sweeper.CheckAllDomains()
	if err != nil {
		s.log.WithError(err).Error("Scheduled renewal sweep failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"checked": result.Checked,
		"renewed": len(result.Renewed),
		"drifted": len(result.Drifted),
	}).Info("Scheduled renewal sweep completed")
}
