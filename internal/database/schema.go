package database

import (
	"time"

	"domain-portfolio/internal/models"
)

// Rows carry a Position so collections load back in display order.

type domainRow struct {
	ID               string `gorm:"primaryKey"`
	Position         int
	Name             string `gorm:"index"`
	Status           string
	RegistrationDate time.Time
	ExpirationDate   time.Time `gorm:"index"`
	AutoRenew        bool
	Registrar        string
	Nameservers      []string `gorm:"serializer:json"`
	Locked           bool
	Privacy          bool
}

func (domainRow) TableName() string { return "domains" }

type historyRow struct {
	ID       string `gorm:"primaryKey"`
	Position int
	DomainID string `gorm:"index"`
	Action   string
	Date     time.Time
	Details  string
	Cost     *float64
}

func (historyRow) TableName() string { return "domain_history" }

type mxRecordRow struct {
	ID       string `gorm:"primaryKey"`
	Position int
	DomainID string `gorm:"index"`
	Hostname string
	Priority int
	Target   string
}

func (mxRecordRow) TableName() string { return "mx_records" }

type userRow struct {
	ID        string `gorm:"primaryKey"`
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Company   string
	Address   models.Address `gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt time.Time      `gorm:"autoCreateTime:false"`
	LastLogin time.Time
}

func (userRow) TableName() string { return "users" }

type billingRow struct {
	ID            string `gorm:"primaryKey"`
	Position      int
	Date          time.Time
	Description   string
	Amount        float64
	Status        string
	InvoiceNumber string `gorm:"index"`
	DomainName    string
	Period        int
}

func (billingRow) TableName() string { return "billing_records" }

// snapshotMeta marks that a store state has been saved
type snapshotMeta struct {
	Name    string `gorm:"primaryKey"`
	Version uint64
	SavedAt time.Time
}

func (snapshotMeta) TableName() string { return "snapshots" }

// InvoiceDownload records one invoice handed to the exporter
type InvoiceDownload struct {
	ID            uint   `gorm:"primaryKey"`
	BillingID     string `gorm:"index"`
	InvoiceNumber string
	DomainName    string
	Amount        float64
	DownloadedAt  time.Time
}

func (InvoiceDownload) TableName() string { return "invoice_downloads" }

func toDomainRow(pos int, d models.Domain) domainRow {
	return domainRow{
		ID:               d.ID,
		Position:         pos,
		Name:             d.Name,
		Status:           string(d.Status),
		RegistrationDate: d.RegistrationDate,
		ExpirationDate:   d.ExpirationDate,
		AutoRenew:        d.AutoRenew,
		Registrar:        d.Registrar,
		Nameservers:      d.Nameservers,
		Locked:           d.Locked,
		Privacy:          d.Privacy,
	}
}

func (r domainRow) model() models.Domain {
	return models.Domain{
		ID:               r.ID,
		Name:             r.Name,
		Status:           models.DomainStatus(r.Status),
		RegistrationDate: r.RegistrationDate.UTC(),
		ExpirationDate:   r.ExpirationDate.UTC(),
		AutoRenew:        r.AutoRenew,
		Registrar:        r.Registrar,
		Nameservers:      r.Nameservers,
		Locked:           r.Locked,
		Privacy:          r.Privacy,
	}
}

func toHistoryRow(pos int, h models.DomainHistory) historyRow {
	return historyRow{
		ID:       h.ID,
		Position: pos,
		DomainID: h.DomainID,
		Action:   string(h.Action),
		Date:     h.Date,
		Details:  h.Details,
		Cost:     h.Cost,
	}
}

func (r historyRow) model() models.DomainHistory {
	return models.DomainHistory{
		ID:       r.ID,
		DomainID: r.DomainID,
		Action:   models.HistoryAction(r.Action),
		Date:     r.Date.UTC(),
		Details:  r.Details,
		Cost:     r.Cost,
	}
}

func toMXRecordRow(pos int, m models.MXRecord) mxRecordRow {
	return mxRecordRow{
		ID:       m.ID,
		Position: pos,
		DomainID: m.DomainID,
		Hostname: m.Hostname,
		Priority: m.Priority,
		Target:   m.Target,
	}
}

func (r mxRecordRow) model() models.MXRecord {
	return models.MXRecord{
		ID:       r.ID,
		DomainID: r.DomainID,
		Hostname: r.Hostname,
		Priority: r.Priority,
		Target:   r.Target,
	}
}

func toUserRow(u models.User) userRow {
	return userRow{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Company:   u.Company,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func (r userRow) model() models.User {
	return models.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Company:   r.Company,
		Address:   r.Address,
		CreatedAt: r.CreatedAt.UTC(),
		LastLogin: r.LastLogin.UTC(),
	}
}

func toBillingRow(pos int, b models.BillingRecord) billingRow {
	return billingRow{
		ID:            b.ID,
		Position:      pos,
		Date:          b.Date,
		Description:   b.Description,
		Amount:        b.Amount,
		Status:        string(b.Status),
		InvoiceNumber: b.InvoiceNumber,
		DomainName:    b.DomainName,
		Period:        b.Period,
	}
}

func (r billingRow) model() models.BillingRecord {
	return models.BillingRecord{
		ID:            r.ID,
		Date:          r.Date.UTC(),
		Description:   r.Description,
		Amount:        r.Amount,
		Status:        models.BillingStatus(r.Status),
		InvoiceNumber: r.InvoiceNumber,
		DomainName:    r.DomainName,
		Period:        r.Period,
	}
}
