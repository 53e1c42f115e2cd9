// Package store holds the in-memory state of the domain portfolio and the
// session user. Stores serialize their mutations and publish an immutable
// snapshot to subscribers after every successful change.
package store

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"domain-portfolio/internal/errs"
	"domain-portfolio/internal/models"

	"github.com/sirupsen/logrus"
)

// RenewalPricePerYear is the flat yearly renewal price in USD
const RenewalPricePerYear = 12.99

// DomainSnapshot is a consistent copy of the DomainStore state
type DomainSnapshot struct {
	Version   uint64                 `json:"version"`
	Domains   []models.Domain        `json:"domains"`
	History   []models.DomainHistory `json:"history"`
	MXRecords []models.MXRecord      `json:"mx_records"`
}

// Renewal is the outcome of RenewDomain
type Renewal struct {
	Domain models.Domain        `json:"domain"`
	Entry  models.DomainHistory `json:"entry"`
}

// DomainStore owns the domains, their history log and their MX records
type DomainStore struct {
	mu        sync.RWMutex
	version   uint64
	domains   []models.Domain
	history   []models.DomainHistory // Newest first
	mxRecords []models.MXRecord

	opts options
	subs subscribers[DomainSnapshot]
}

// NewDomainStore creates a store seeded with copies of the given collections
func NewDomainStore(domains []models.Domain, history []models.DomainHistory, mxRecords []models.MXRecord, opts ...Option) *DomainStore {
	return &DomainStore{
		domains:   cloneDomains(domains),
		history:   cloneHistory(history),
		mxRecords: append([]models.MXRecord{}, mxRecords...),
		opts:      buildOptions("domain-store", opts),
	}
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned func removes the subscription.
func (s *DomainStore) Subscribe(fn func(DomainSnapshot)) func() {
	return s.subs.add(fn)
}

// Snapshot returns a copy of the current state
func (s *DomainStore) Snapshot() DomainSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Domains returns a copy of all domains in display order
func (s *DomainStore) Domains() []models.Domain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDomains(s.domains)
}

// Domain returns a copy of the domain with the given id
func (s *DomainStore) Domain(id string) (models.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.domainIndex(id)
	if i < 0 {
		return models.Domain{}, errs.NotFound("domain", id)
	}
	return s.domains[i].Clone(), nil
}

// History returns a copy of the history log, newest first
func (s *DomainStore) History() []models.DomainHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHistory(s.history)
}

// MXRecords returns a copy of all MX records
func (s *DomainStore) MXRecords() []models.MXRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MXRecord{}, s.mxRecords...)
}

// Filter returns the domains matching a name substring and a status
func (s *DomainStore) Filter(substring, status string) []models.Domain {
	return FilterByNameAndStatus(s.Domains(), substring, status)
}

// UpdateDomain merges patch into the domain with the given id
func (s *DomainStore) UpdateDomain(id string, patch models.DomainPatch) (models.Domain, error) {
	if err := validateDomainPatch(patch); err != nil {
		return models.Domain{}, err
	}

	var updated models.Domain
	err := s.mutate(func() error {
		i := s.domainIndex(id)
		if i < 0 {
			return errs.NotFound("domain", id)
		}
		patch.Apply(&s.domains[i])
		updated = s.domains[i].Clone()
		return nil
	})
	if err != nil {
		return models.Domain{}, err
	}

	s.opts.log.WithField("domain", updated.Name).Debug("Domain updated")
	return updated, nil
}

// DeleteDomain removes the domain and its MX records. History entries are kept.
func (s *DomainStore) DeleteDomain(id string) error {
	var name string
	var removedMX int
	err := s.mutate(func() error {
		i := s.domainIndex(id)
		if i < 0 {
			return errs.NotFound("domain", id)
		}
		name = s.domains[i].Name
		s.domains = append(s.domains[:i:i], s.domains[i+1:]...)

		kept := s.mxRecords[:0:0]
		for _, r := range s.mxRecords {
			if r.DomainID == id {
				removedMX++
				continue
			}
			kept = append(kept, r)
		}
		s.mxRecords = kept
		return nil
	})
	if err != nil {
		return err
	}

	s.opts.log.WithFields(logrus.Fields{"domain": name, "mx_removed": removedMX}).Info("Domain deleted")
	return nil
}

// RenewDomain extends the registration by years calendar years, marks the
// domain active and records the renewal in the history log
func (s *DomainStore) RenewDomain(id string, years int) (Renewal, error) {
	if years < 1 {
		return Renewal{}, errs.Invalid("years", "must be a positive integer")
	}

	var result Renewal
	err := s.mutate(func() error {
		i := s.domainIndex(id)
		if i < 0 {
			return errs.NotFound("domain", id)
		}

		d := &s.domains[i]
		d.ExpirationDate = d.ExpirationDate.AddDate(years, 0, 0)
		d.Status = models.StatusActive

		cost := renewalCost(years)
		entry := models.DomainHistory{
			ID:       s.opts.newID(),
			DomainID: id,
			Action:   models.ActionRenewed,
			Date:     s.opts.now(),
			Details:  renewalDetails(years),
			Cost:     &cost,
		}
		s.history = append([]models.DomainHistory{entry}, s.history...)

		result = Renewal{Domain: d.Clone(), Entry: entry.Clone()}
		return nil
	})
	if err != nil {
		return Renewal{}, err
	}

	s.opts.log.WithFields(logrus.Fields{
		"domain":     result.Domain.Name,
		"years":      years,
		"expires_at": result.Domain.ExpirationDate.Format("2006-01-02"),
	}).Info("Domain renewed")
	return result, nil
}

// AddMXRecord stores a new MX record under a fresh id and returns it
func (s *DomainStore) AddMXRecord(record models.MXRecord) (models.MXRecord, error) {
	if record.Hostname == "" {
		record.Hostname = models.DefaultMXHostname
	}
	if err := validateMXRecord(record); err != nil {
		return models.MXRecord{}, err
	}

	err := s.mutate(func() error {
		if s.domainIndex(record.DomainID) < 0 {
			return errs.NotFound("domain", record.DomainID)
		}
		record.ID = s.opts.newID()
		s.mxRecords = append(s.mxRecords, record)
		return nil
	})
	if err != nil {
		return models.MXRecord{}, err
	}

	s.opts.log.WithFields(logrus.Fields{"mx": record.ID, "target": record.Target}).Debug("MX record added")
	return record, nil
}

// UpdateMXRecord merges patch into the MX record with the given id
func (s *DomainStore) UpdateMXRecord(id string, patch models.MXRecordPatch) (models.MXRecord, error) {
	var updated models.MXRecord
	err := s.mutate(func() error {
		i := s.mxIndex(id)
		if i < 0 {
			return errs.NotFound("mx record", id)
		}

		candidate := s.mxRecords[i]
		patch.Apply(&candidate)
		if err := validateMXRecord(candidate); err != nil {
			return err
		}
		s.mxRecords[i] = candidate
		updated = candidate
		return nil
	})
	if err != nil {
		return models.MXRecord{}, err
	}
	return updated, nil
}

// DeleteMXRecord removes the MX record with the given id
func (s *DomainStore) DeleteMXRecord(id string) error {
	return s.mutate(func() error {
		i := s.mxIndex(id)
		if i < 0 {
			return errs.NotFound("mx record", id)
		}
		s.mxRecords = append(s.mxRecords[:i:i], s.mxRecords[i+1:]...)
		return nil
	})
}

// mutate runs fn under the write lock. On success the version is bumped and
// subscribers receive the new snapshot after the lock is released. On error
// fn must have left the state untouched.
func (s *DomainStore) mutate(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subs.notify(snap)
	return nil
}

func (s *DomainStore) snapshotLocked() DomainSnapshot {
	return DomainSnapshot{
		Version:   s.version,
		Domains:   cloneDomains(s.domains),
		History:   cloneHistory(s.history),
		MXRecords: append([]models.MXRecord{}, s.mxRecords...),
	}
}

func (s *DomainStore) domainIndex(id string) int {
	for i := range s.domains {
		if s.domains[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *DomainStore) mxIndex(id string) int {
	for i := range s.mxRecords {
		if s.mxRecords[i].ID == id {
			return i
		}
	}
	return -1
}

func validateDomainPatch(p models.DomainPatch) error {
	ve := &errs.ValidationError{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		ve.Add("name", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		ve.Add("status", fmt.Sprintf("unknown status %q", *p.Status))
	}
	if p.ExpirationDate != nil && p.ExpirationDate.IsZero() {
		ve.Add("expiration_date", "must be a valid date")
	}
	return ve.OrNil()
}

func validateMXRecord(r models.MXRecord) error {
	ve := &errs.ValidationError{}
	if r.DomainID == "" {
		ve.Add("domain_id", "is required")
	}
	if strings.TrimSpace(r.Hostname) == "" {
		ve.Add("hostname", "must not be empty")
	}
	if r.Priority < 0 {
		ve.Add("priority", "must not be negative")
	}
	if strings.TrimSpace(r.Target) == "" {
		ve.Add("target", "is required")
	}
	return ve.OrNil()
}

func renewalCost(years int) float64 {
	return math.Round(float64(years)*RenewalPricePerYear*100) / 100
}

func renewalDetails(years int) string {
	if years == 1 {
		return "Domain renewed for 1 year"
	}
	return fmt.Sprintf("Domain renewed for %d years", years)
}

func cloneDomains(in []models.Domain) []models.Domain {
	out := make([]models.Domain, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}

func cloneHistory(in []models.DomainHistory) []models.DomainHistory {
	out := make([]models.DomainHistory, len(in))
	for i, h := range in {
		out[i] = h.Clone()
	}
	return out
}
