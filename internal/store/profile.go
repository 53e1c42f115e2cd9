package store

import (
	"context"
	"errors"
	"math"
	"sync"

	"domain-portfolio/internal/errs"
	"domain-portfolio/internal/models"
)

// PasswordBackend verifies and replaces the session user's password
type PasswordBackend interface {
	ChangePassword(ctx context.Context, current, next string) error
}

// InvoiceExporter produces the artifact of a billing record
type InvoiceExporter interface {
	Export(ctx context.Context, record models.BillingRecord) error
}

// acceptAllPasswords is used when no backend is configured: there is no
// stored credential to check against.
type acceptAllPasswords struct{}

func (acceptAllPasswords) ChangePassword(context.Context, string, string) error { return nil }

type discardInvoices struct{}

func (discardInvoices) Export(context.Context, models.BillingRecord) error { return nil }

// ProfileSnapshot is a consistent copy of the ProfileStore state
type ProfileSnapshot struct {
	Version uint64                 `json:"version"`
	User    models.User            `json:"user"`
	Billing []models.BillingRecord `json:"billing"`
}

// BillingSummary aggregates the billing history
type BillingSummary struct {
	TotalPaid float64 `json:"total_paid"`
	Pending   int     `json:"pending"`
	Failed    int     `json:"failed"`
	Count     int     `json:"count"`
}

// ProfileStore owns the session user's profile and billing records
type ProfileStore struct {
	mu      sync.RWMutex
	version uint64
	user    models.User
	billing []models.BillingRecord

	passwords PasswordBackend
	invoices  InvoiceExporter
	opts      options
	subs      subscribers[ProfileSnapshot]
}

// NewProfileStore creates a profile store. A nil passwords backend accepts
// every change and a nil exporter discards invoices.
func NewProfileStore(user models.User, billing []models.BillingRecord, passwords PasswordBackend, invoices InvoiceExporter, opts ...Option) *ProfileStore {
	if passwords == nil {
		passwords = acceptAllPasswords{}
	}
	if invoices == nil {
		invoices = discardInvoices{}
	}
	return &ProfileStore{
		user:      user,
		billing:   append([]models.BillingRecord{}, billing...),
		passwords: passwords,
		invoices:  invoices,
		opts:      buildOptions("profile-store", opts),
	}
}

// Subscribe registers fn to receive a snapshot after every profile change
func (s *ProfileStore) Subscribe(fn func(ProfileSnapshot)) func() {
	return s.subs.add(fn)
}

// Snapshot returns a copy of the current state
func (s *ProfileStore) Snapshot() ProfileSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// User returns the current profile
func (s *ProfileStore) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Billing returns the billing records in display order
func (s *ProfileStore) Billing() []models.BillingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.BillingRecord{}, s.billing...)
}

// BillingSummary totals the paid records and counts the open ones
func (s *ProfileStore) BillingSummary() BillingSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SummarizeBilling(s.billing)
}

// UpdateUser merges patch into the profile
func (s *ProfileStore) UpdateUser(patch models.UserPatch) models.User {
	s.mu.Lock()
	patch.Apply(&s.user)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subs.notify(snap)
	s.opts.log.WithField("user", snap.User.ID).Debug("Profile updated")
	return snap.User
}

// ChangePassword replaces the password through the configured backend.
// Matching next against a confirmation field is left to the caller, see
// ValidatePasswordChange.
func (s *ProfileStore) ChangePassword(ctx context.Context, current, next string) error {
	if next == "" {
		return errs.Invalid("new_password", "must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.passwords.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, errs.ErrUnauthorized) || errors.Is(err, errs.ErrValidation) {
			return err
		}
		return errs.External("password backend", err)
	}

	s.opts.log.Info("Password changed successfully")
	return nil
}

// DownloadInvoice hands the billing record with the given id to the invoice exporter
func (s *ProfileStore) DownloadInvoice(ctx context.Context, billingID string) (models.BillingRecord, error) {
	record, ok := s.findBilling(billingID)
	if !ok {
		return models.BillingRecord{}, errs.NotFound("billing record", billingID)
	}

	if err := s.invoices.Export(ctx, record); err != nil {
		return models.BillingRecord{}, errs.External("invoice exporter", err)
	}
	return record, nil
}

func (s *ProfileStore) findBilling(id string) (models.BillingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.billing {
		if b.ID == id {
			return b, true
		}
	}
	return models.BillingRecord{}, false
}

func (s *ProfileStore) snapshotLocked() ProfileSnapshot {
	return ProfileSnapshot{
		Version: s.version,
		User:    s.user,
		Billing: append([]models.BillingRecord{}, s.billing...),
	}
}

// ValidatePasswordChange checks the new password against its confirmation
func ValidatePasswordChange(next, confirm string) error {
	ve := &errs.ValidationError{}
	if next == "" {
		ve.Add("new_password", "must not be empty")
	}
	if next != confirm {
		ve.Add("confirm_password", "new passwords do not match")
	}
	return ve.OrNil()
}

// SummarizeBilling totals the paid records and counts pending and failed ones
func SummarizeBilling(records []models.BillingRecord) BillingSummary {
	summary := BillingSummary{Count: len(records)}
	for _, r := range records {
		switch r.Status {
		case models.BillingPaid:
			summary.TotalPaid += r.Amount
		case models.BillingPending:
			summary.Pending++
		case models.BillingFailed:
			summary.Failed++
		}
	}
	summary.TotalPaid = math.Round(summary.TotalPaid*100) / 100
	return summary
}
