// Package format turns store values into display strings and style tokens
// for the presentation layer.
package format

import (
	"fmt"
	"math"
	"time"

	"domain-portfolio/internal/models"

	"github.com/dustin/go-humanize"
)

// DateLayout renders dates as "Jan 15, 2025"
const DateLayout = "Jan 02, 2006"

// Style tokens returned by the colour helpers
const (
	ColorGreen  = "text-emerald-600 bg-emerald-50 border-emerald-200"
	ColorAmber  = "text-amber-600 bg-amber-50 border-amber-200"
	ColorRed    = "text-red-600 bg-red-50 border-red-200"
	ColorBlue   = "text-blue-600 bg-blue-50 border-blue-200"
	ColorPurple = "text-purple-600 bg-purple-50 border-purple-200"
	ColorGray   = "text-gray-600 bg-gray-50 border-gray-200"
)

// FormatDate renders t in the dashboard date layout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatCurrency renders an amount as en-US dollars with two decimals
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	amount = math.Round(amount*100) / 100
	return sign + "$" + humanize.FormatFloat("#,###.##", amount)
}

// StatusColor maps a domain status to its style token
func StatusColor(status models.DomainStatus) string {
	switch status {
	case models.StatusActive:
		return ColorGreen
	case models.StatusExpiring:
		return ColorAmber
	case models.StatusExpired:
		return ColorRed
	case models.StatusPending:
		return ColorBlue
	default:
		return ColorGray
	}
}

// BillingStatusColor maps a billing status to its style token
func BillingStatusColor(status models.BillingStatus) string {
	switch status {
	case models.BillingPaid:
		return ColorGreen
	case models.BillingPending:
		return ColorAmber
	case models.BillingFailed:
		return ColorRed
	default:
		return ColorGray
	}
}

// ActionColor maps a history action to its style token
func ActionColor(action models.HistoryAction) string {
	switch action {
	case models.ActionRegistered:
		return ColorBlue
	case models.ActionRenewed:
		return ColorGreen
	case models.ActionTransferred:
		return ColorPurple
	case models.ActionUpdated:
		return ColorAmber
	case models.ActionExpired:
		return ColorRed
	default:
		return ColorGray
	}
}

// DaysLeft renders a day count as "1 day left" or "12 days left"
func DaysLeft(days int) string {
	if days == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", days)
}
