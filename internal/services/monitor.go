package services

import (
	"fmt"
	"time"

	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"

	"github.com/sirupsen/logrus"
)

// maxAutoRenewYears bounds a single catch-up renewal
const maxAutoRenewYears = 10

// SweepResult summarizes one pass of the renewal sweep
type SweepResult struct {
	Checked int      `json:"checked"`
	Renewed []string `json:"renewed"` // Domain names
	Drifted []string `json:"drifted"` // Domain names whose stored status disagrees with the dates
}

// RenewalService auto-renews domains that are close to expiry and reports
// domains whose stored status drifted from their expiration date
type RenewalService struct {
	domains    *store.DomainStore
	windowDays int
	now        func() time.Time
	log        *logrus.Entry
}

// NewRenewalService creates a renewal service that renews auto-renew
// domains expiring within windowDays
func NewRenewalService(domains *store.DomainStore, windowDays int) *RenewalService {
	if windowDays <= 0 {
		windowDays = store.ExpiringSoonDays
	}
	return &RenewalService{
		domains:    domains,
		windowDays: windowDays,
		now:        time.Now,
		log:        logrus.WithField("component", "renewal"),
	}
}

// CheckAllDomains runs the sweep over every domain in the store
func (s *RenewalService) CheckAllDomains() (SweepResult, error) {
	domains := s.domains.Domains()
	now := s.now()

	s.log.Debugf("Checking %d domains...", len(domains))

	result := SweepResult{Checked: len(domains)}
	var lastErr error
	for _, domain := range domains {
		renewed, err := s.CheckDomain(domain, now)
		if err != nil {
			s.log.WithError(err).Errorf("Error checking domain %s", domain.Name)
			lastErr = err
			continue
		}
		if renewed {
			result.Renewed = append(result.Renewed, domain.Name)
			continue
		}
		if derived := store.DerivedStatus(domain, now); derived != domain.Status {
			s.log.WithFields(logrus.Fields{
				"domain":  domain.Name,
				"stored":  domain.Status,
				"derived": derived,
			}).Warn("Domain status drifted from expiration date")
			result.Drifted = append(result.Drifted, domain.Name)
		}
	}

	if lastErr != nil && len(result.Renewed) == 0 {
		return result, lastErr
	}
	return result, nil
}

// CheckDomain renews the domain when auto-renew is on and it expires within
// the window. Expired domains are renewed by as many years as it takes to
// leave the window.
func (s *RenewalService) CheckDomain(domain models.Domain, now time.Time) (bool, error) {
	if !domain.AutoRenew || domain.Status == models.StatusPending {
		return false, nil
	}

	if store.DaysUntilExpiry(domain, now) > s.windowDays {
		return false, nil
	}

	years := yearsToLeaveWindow(domain, now, s.windowDays)
	res, err := s.domains.RenewDomain(domain.ID, years)
	if err != nil {
		return false, fmt.Errorf("auto-renew failed: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"domain":     domain.Name,
		"years":      years,
		"expires_at": res.Domain.ExpirationDate.Format("2006-01-02"),
	}).Info("Domain auto-renewed")
	return true, nil
}

func yearsToLeaveWindow(domain models.Domain, now time.Time, windowDays int) int {
	years := 1
	for ; years < maxAutoRenewYears; years++ {
		next := domain
		next.ExpirationDate = domain.ExpirationDate.AddDate(years, 0, 0)
		if store.DaysUntilExpiry(next, now) > windowDays {
			break
		}
	}
	return years
}
