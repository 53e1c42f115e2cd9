package models

import (
	"time"
)

// Address is a postal address
type Address struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	ZipCode string `json:"zip_code" yaml:"zip_code"`
	Country string `json:"country" yaml:"country"`
}

// User represents the profile of the session user
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	FirstName string    `json:"first_name" yaml:"first_name"`
	LastName  string    `json:"last_name" yaml:"last_name"`
	Phone     string    `json:"phone" yaml:"phone"`
	Company   string    `json:"company,omitempty" yaml:"company,omitempty"` // Optional
	Address   Address   `json:"address" yaml:"address"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	LastLogin time.Time `json:"last_login" yaml:"last_login"`
}

// AddressPatch carries a partial address update
type AddressPatch struct {
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	ZipCode *string `json:"zip_code,omitempty"`
	Country *string `json:"country,omitempty"`
}

// UserPatch carries a partial profile update
type UserPatch struct {
	Email     *string       `json:"email,omitempty"`
	FirstName *string       `json:"first_name,omitempty"`
	LastName  *string       `json:"last_name,omitempty"`
	Phone     *string       `json:"phone,omitempty"`
	Company   *string       `json:"company,omitempty"`
	Address   *AddressPatch `json:"address,omitempty"`
	LastLogin *time.Time    `json:"last_login,omitempty"`
}

// Apply merges the set fields of p into u
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	if p.LastLogin != nil {
		u.LastLogin = *p.LastLogin
	}
	if a := p.Address; a != nil {
		if a.Street != nil {
			u.Address.Street = *a.Street
		}
		if a.City != nil {
			u.Address.City = *a.City
		}
		if a.State != nil {
			u.Address.State = *a.State
		}
		if a.ZipCode != nil {
			u.Address.ZipCode = *a.ZipCode
		}
		if a.Country != nil {
			u.Address.Country = *a.Country
		}
	}
}

// BillingStatus is the payment state of a billing record
type BillingStatus string

const (
	BillingPaid    BillingStatus = "paid"
	BillingPending BillingStatus = "pending"
	BillingFailed  BillingStatus = "failed"
)

// BillingRecord is an immutable billable event
type BillingRecord struct {
	ID            string        `json:"id" yaml:"id"`
	Date          time.Time     `json:"date" yaml:"date"`
	Description   string        `json:"description" yaml:"description"`
	Amount        float64       `json:"amount" yaml:"amount"`
	Status        BillingStatus `json:"status" yaml:"status"`
	InvoiceNumber string        `json:"invoice_number" yaml:"invoice_number"`
	DomainName    string        `json:"domain_name" yaml:"domain_name"`
	Period        int           `json:"period" yaml:"period"` // Years
}
