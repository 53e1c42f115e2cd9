package models

import (
	"time"
)

// DomainStatus is the stored lifecycle status of a domain
type DomainStatus string

const (
	StatusActive   DomainStatus = "active"
	StatusExpired  DomainStatus = "expired"
	StatusExpiring DomainStatus = "expiring"
	StatusPending  DomainStatus = "pending"
)

// StatusAll is the filter value that matches any status
const StatusAll = "all"

// Valid reports whether s is one of the known statuses
func (s DomainStatus) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusExpiring, StatusPending:
		return true
	}
	return false
}

// Domain represents a registered domain under management
type Domain struct {
	ID               string       `json:"id" yaml:"id"`
	Name             string       `json:"name" yaml:"name"`                           // Fully qualified domain name
	Status           DomainStatus `json:"status" yaml:"status"`                       // Stored status, not recomputed on read
	RegistrationDate time.Time    `json:"registration_date" yaml:"registration_date"` // Registration date
	ExpirationDate   time.Time    `json:"expiration_date" yaml:"expiration_date"`     // Expiration date
	AutoRenew        bool         `json:"auto_renew" yaml:"auto_renew"`
	Registrar        string       `json:"registrar" yaml:"registrar"`
	Nameservers      []string     `json:"nameservers" yaml:"nameservers"`
	Locked           bool         `json:"locked" yaml:"locked"`   // Transfer lock
	Privacy          bool         `json:"privacy" yaml:"privacy"` // WHOIS privacy
}

// Clone returns a copy that shares no slices with d
func (d Domain) Clone() Domain {
	if d.Nameservers != nil {
		d.Nameservers = append([]string(nil), d.Nameservers...)
	}
	return d
}

// DomainPatch carries a partial update; nil fields are left untouched
type DomainPatch struct {
	Name             *string       `json:"name,omitempty"`
	Status           *DomainStatus `json:"status,omitempty"`
	RegistrationDate *time.Time    `json:"registration_date,omitempty"`
	ExpirationDate   *time.Time    `json:"expiration_date,omitempty"`
	AutoRenew        *bool         `json:"auto_renew,omitempty"`
	Registrar        *string       `json:"registrar,omitempty"`
	Nameservers      *[]string     `json:"nameservers,omitempty"`
	Locked           *bool         `json:"locked,omitempty"`
	Privacy          *bool         `json:"privacy,omitempty"`
}

// Apply merges the set fields of p into d
func (p DomainPatch) Apply(d *Domain) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.RegistrationDate != nil {
		d.RegistrationDate = *p.RegistrationDate
	}
	if p.ExpirationDate != nil {
		d.ExpirationDate = *p.ExpirationDate
	}
	if p.AutoRenew != nil {
		d.AutoRenew = *p.AutoRenew
	}
	if p.Registrar != nil {
		d.Registrar = *p.Registrar
	}
	if p.Nameservers != nil {
		d.Nameservers = append([]string(nil), (*p.Nameservers)...)
	}
	if p.Locked != nil {
		d.Locked = *p.Locked
	}
	if p.Privacy != nil {
		d.Privacy = *p.Privacy
	}
}

// HistoryAction names what happened to a domain
type HistoryAction string

const (
	ActionRegistered  HistoryAction = "registered"
	ActionRenewed     HistoryAction = "renewed"
	ActionTransferred HistoryAction = "transferred"
	ActionUpdated     HistoryAction = "updated"
	ActionExpired     HistoryAction = "expired"
)

// DomainHistory is an immutable audit entry for a domain
type DomainHistory struct {
	ID       string        `json:"id" yaml:"id"`
	DomainID string        `json:"domain_id" yaml:"domain_id"` // Related domain, not owned
	Action   HistoryAction `json:"action" yaml:"action"`
	Date     time.Time     `json:"date" yaml:"date"`
	Details  string        `json:"details" yaml:"details"`
	Cost     *float64      `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// Clone returns a copy that shares no pointers with h
func (h DomainHistory) Clone() DomainHistory {
	if h.Cost != nil {
		cost := *h.Cost
		h.Cost = &cost
	}
	return h
}

// DefaultMXHostname is the zone apex
const DefaultMXHostname = "@"

// MXRecord represents a mail exchange record of a domain
type MXRecord struct {
	ID       string `json:"id" yaml:"id"`
	DomainID string `json:"domain_id" yaml:"domain_id"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Priority int    `json:"priority" yaml:"priority"` // Lower value is preferred
	Target   string `json:"target" yaml:"target"`
}

// MXRecordPatch carries a partial MX record update
type MXRecordPatch struct {
	Hostname *string `json:"hostname,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Target   *string `json:"target,omitempty"`
}

// Apply merges the set fields of p into r
func (p MXRecordPatch) Apply(r *MXRecord) {
	if p.Hostname != nil {
		r.Hostname = *p.Hostname
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.Target != nil {
		r.Target = *p.Target
	}
}

// SearchResult is one candidate of a domain availability search
type SearchResult struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Price     int    `json:"price"` // Yearly price in whole dollars
	Premium   bool   `json:"premium"`
}
