package api

import (
	"errors"
	"net/http"
	"time"

	"domain-portfolio/internal/errs"
	"domain-portfolio/internal/format"
	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"

	"github.com/gin-gonic/gin"
)

// domainView is a domain with its display strings
type domainView struct {
	models.Domain
	DaysUntilExpiry   int    `json:"days_until_expiry"`
	ExpiringSoon      bool   `json:"expiring_soon"`
	ExpiresDisplay    string `json:"expires_display"`
	RegisteredDisplay string `json:"registered_display"`
	DaysLeftDisplay   string `json:"days_left_display"`
	StatusColor       string `json:"status_color"`
}

func newDomainView(d models.Domain, now time.Time) domainView {
	days := store.DaysUntilExpiry(d, now)
	return domainView{
		Domain:            d,
		DaysUntilExpiry:   days,
		ExpiringSoon:      store.IsExpiringSoon(d, now),
		ExpiresDisplay:    format.FormatDate(d.ExpirationDate),
		RegisteredDisplay: format.FormatDate(d.RegistrationDate),
		DaysLeftDisplay:   format.DaysLeft(days),
		StatusColor:       format.StatusColor(d.Status),
	}
}

func newDomainViews(domains []models.Domain, now time.Time) []domainView {
	views := make([]domainView, 0, len(domains))
	for _, d := range domains {
		views = append(views, newDomainView(d, now))
	}
	return views
}

type historyView struct {
	models.DomainHistory
	DateDisplay string `json:"date_display"`
	CostDisplay string `json:"cost_display,omitempty"`
	ActionColor string `json:"action_color"`
}

func newHistoryViews(history []models.DomainHistory) []historyView {
	views := make([]historyView, 0, len(history))
	for _, h := range history {
		v := historyView{
			DomainHistory: h,
			DateDisplay:   format.FormatDate(h.Date),
			ActionColor:   format.ActionColor(h.Action),
		}
		if h.Cost != nil {
			v.CostDisplay = format.FormatCurrency(*h.Cost)
		}
		views = append(views, v)
	}
	return views
}

type billingView struct {
	models.BillingRecord
	DateDisplay   string `json:"date_display"`
	AmountDisplay string `json:"amount_display"`
	StatusColor   string `json:"status_color"`
}

func newBillingViews(records []models.BillingRecord) []billingView {
	views := make([]billingView, 0, len(records))
	for _, b := range records {
		views = append(views, billingView{
			BillingRecord: b,
			DateDisplay:   format.FormatDate(b.Date),
			AmountDisplay: format.FormatCurrency(b.Amount),
			StatusColor:   format.BillingStatusColor(b.Status),
		})
	}
	return views
}

type billingSummaryView struct {
	store.BillingSummary
	TotalPaidDisplay string `json:"total_paid_display"`
}

type searchResultView struct {
	models.SearchResult
	PriceDisplay string `json:"price_display"`
}

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status matching err. Validation errors carry
// their field errors.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Errors
	}

	_ = c.Error(err)
	c.JSON(status, body)
}

// badRequest responds to a body that could not be decoded
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
