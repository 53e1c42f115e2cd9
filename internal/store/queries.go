package store

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"domain-portfolio/internal/models"
)

// ExpiringSoonDays is the window in which a domain counts as expiring soon
const ExpiringSoonDays = 30

// Stats summarizes a domain portfolio for the dashboard
type Stats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
}

// FilterByNameAndStatus keeps the domains whose name contains substring,
// ignoring case, and whose status equals status. "all" matches any status.
func FilterByNameAndStatus(domains []models.Domain, substring, status string) []models.Domain {
	needle := strings.ToLower(substring)
	out := make([]models.Domain, 0, len(domains))
	for _, d := range domains {
		if !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		if status != models.StatusAll && string(d.Status) != status {
			continue
		}
		out = append(out, d)
	}
	return out
}

// DaysUntilExpiry returns the number of days left before the domain expires,
// rounded up. It is negative for domains that already expired.
func DaysUntilExpiry(d models.Domain, now time.Time) int {
	diff := d.ExpirationDate.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// IsExpiringSoon reports whether the domain expires within ExpiringSoonDays
func IsExpiringSoon(d models.Domain, now time.Time) bool {
	days := DaysUntilExpiry(d, now)
	return days > 0 && days <= ExpiringSoonDays
}

// DerivedStatus computes the status implied by the expiration date. The
// stored status is never replaced by it implicitly.
func DerivedStatus(d models.Domain, now time.Time) models.DomainStatus {
	if d.Status == models.StatusPending {
		return models.StatusPending
	}
	switch days := DaysUntilExpiry(d, now); {
	case days <= 0:
		return models.StatusExpired
	case days <= ExpiringSoonDays:
		return models.StatusExpiring
	default:
		return models.StatusActive
	}
}

// ExpiringSoon returns the expiring-soon domains ordered by expiration date,
// at most limit of them. A limit <= 0 returns all.
func ExpiringSoon(domains []models.Domain, now time.Time, limit int) []models.Domain {
	var out []models.Domain
	for _, d := range domains {
		if IsExpiringSoon(d, now) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Domain) int {
		return a.ExpirationDate.Compare(b.ExpirationDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ComputeStats counts active and expired domains by stored status and
// expiring-soon domains by expiration date
func ComputeStats(domains []models.Domain, now time.Time) Stats {
	stats := Stats{Total: len(domains)}
	for _, d := range domains {
		switch d.Status {
		case models.StatusActive:
			stats.Active++
		case models.StatusExpired:
			stats.Expired++
		}
		if IsExpiringSoon(d, now) {
			stats.ExpiringSoon++
		}
	}
	return stats
}

// HistoryByAction keeps the entries with the given action. "all" keeps everything.
func HistoryByAction(history []models.DomainHistory, action string) []models.DomainHistory {
	out := make([]models.DomainHistory, 0, len(history))
	for _, h := range history {
		if action == models.StatusAll || string(h.Action) == action {
			out = append(out, h)
		}
	}
	return out
}

// MXRecordsForDomain returns the records of one domain, most preferred first
func MXRecordsForDomain(records []models.MXRecord, domainID string) []models.MXRecord {
	out := make([]models.MXRecord, 0)
	for _, r := range records {
		if r.DomainID == domainID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.MXRecord) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return out
}
