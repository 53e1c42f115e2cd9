package store

import (
	"testing"
	"time"

	"domain-portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByNameAndStatus(t *testing.T) {
	domains := testDomains()

	tests := []struct {
		name      string
		substring string
		status    string
		want      []string
	}{
		{"case insensitive", "EXAMPLE", "all", []string{"1"}},
		{"empty matches all", "", "all", []string{"1", "2", "3"}},
		{"status only", "", "expiring", []string{"2"}},
		{"both must match", "store", "active", nil},
		{"substring in tld", ".dev", "active", []string{"3"}},
		{"unknown status", "", "deleted", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, d := range FilterByNameAndStatus(domains, tt.substring, tt.status) {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	exactly30 := models.Domain{ExpirationDate: now.AddDate(0, 0, 30)}
	assert.Equal(t, 30, DaysUntilExpiry(exactly30, now))

	partial := models.Domain{ExpirationDate: now.Add(36 * time.Hour)}
	assert.Equal(t, 2, DaysUntilExpiry(partial, now))

	past := models.Domain{ExpirationDate: now.AddDate(0, 0, -10)}
	assert.Equal(t, -10, DaysUntilExpiry(past, now))
	assert.Negative(t, DaysUntilExpiry(models.Domain{ExpirationDate: now.Add(-49 * time.Hour)}, now))
}

func TestIsExpiringSoon(t *testing.T) {
	now := fixedNow

	assert.True(t, IsExpiringSoon(models.Domain{ExpirationDate: now.AddDate(0, 0, 30)}, now))
	assert.True(t, IsExpiringSoon(models.Domain{ExpirationDate: now.Add(time.Hour)}, now))
	assert.False(t, IsExpiringSoon(models.Domain{ExpirationDate: now.AddDate(0, 0, 31)}, now))
	assert.False(t, IsExpiringSoon(models.Domain{ExpirationDate: now}, now))
	assert.False(t, IsExpiringSoon(models.Domain{ExpirationDate: now.AddDate(0, 0, -3)}, now))
}

func TestDerivedStatus(t *testing.T) {
	now := fixedNow

	assert.Equal(t, models.StatusActive, DerivedStatus(models.Domain{Status: models.StatusExpired, ExpirationDate: now.AddDate(1, 0, 0)}, now))
	assert.Equal(t, models.StatusExpiring, DerivedStatus(models.Domain{Status: models.StatusActive, ExpirationDate: now.AddDate(0, 0, 10)}, now))
	assert.Equal(t, models.StatusExpired, DerivedStatus(models.Domain{Status: models.StatusActive, ExpirationDate: now.AddDate(0, 0, -1)}, now))
	assert.Equal(t, models.StatusPending, DerivedStatus(models.Domain{Status: models.StatusPending, ExpirationDate: now.AddDate(0, 0, -1)}, now))
}

func TestExpiringSoon_SortedAndLimited(t *testing.T) {
	now := fixedNow
	domains := []models.Domain{
		{ID: "late", ExpirationDate: now.AddDate(0, 0, 20)},
		{ID: "far", ExpirationDate: now.AddDate(0, 0, 90)},
		{ID: "soon", ExpirationDate: now.AddDate(0, 0, 2)},
		{ID: "gone", ExpirationDate: now.AddDate(0, 0, -2)},
		{ID: "mid", ExpirationDate: now.AddDate(0, 0, 10)},
	}

	var ids []string
	for _, d := range ExpiringSoon(domains, now, 0) {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"soon", "mid", "late"}, ids)

	limited := ExpiringSoon(domains, now, 2)
	require.Len(t, limited, 2)
	assert.Equal(t, "mid", limited[1].ID)
}

func TestComputeStats(t *testing.T) {
	now := fixedNow
	domains := []models.Domain{
		{Status: models.StatusActive, ExpirationDate: now.AddDate(1, 0, 0)},
		{Status: models.StatusActive, ExpirationDate: now.AddDate(0, 0, 5)},
		{Status: models.StatusExpired, ExpirationDate: now.AddDate(0, 0, -5)},
		{Status: models.StatusPending, ExpirationDate: now.AddDate(0, 0, 15)},
	}

	assert.Equal(t, Stats{Total: 4, Active: 2, ExpiringSoon: 2, Expired: 1}, ComputeStats(domains, now))
	assert.Equal(t, Stats{}, ComputeStats(nil, now))
}

func TestHistoryByAction(t *testing.T) {
	history := []models.DomainHistory{
		{ID: "a", Action: models.ActionRenewed},
		{ID: "b", Action: models.ActionRegistered},
		{ID: "c", Action: models.ActionRenewed},
	}

	assert.Len(t, HistoryByAction(history, "all"), 3)
	renewed := HistoryByAction(history, "renewed")
	require.Len(t, renewed, 2)
	assert.Equal(t, "c", renewed[1].ID)
	assert.Empty(t, HistoryByAction(history, "transferred"))
}

func TestMXRecordsForDomain(t *testing.T) {
	records := []models.MXRecord{
		{ID: "a", DomainID: "1", Priority: 20},
		{ID: "b", DomainID: "2", Priority: 1},
		{ID: "c", DomainID: "1", Priority: 5},
		{ID: "d", DomainID: "1", Priority: 20},
	}

	var ids []string
	for _, r := range MXRecordsForDomain(records, "1") {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "a", "d"}, ids)
	assert.Empty(t, MXRecordsForDomain(records, "9"))
}
