package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domain-portfolio/internal/config"
	"domain-portfolio/internal/fixtures"
	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Enabled: true, Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func saveSeed(t *testing.T, db *DB, seed *fixtures.Seed) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.SaveDomainSnapshot(ctx, store.DomainSnapshot{
		Domains:   seed.Domains,
		History:   seed.History,
		MXRecords: seed.MXRecords,
	}))
	require.NoError(t, db.SaveProfileSnapshot(ctx, store.ProfileSnapshot{
		User:    seed.User,
		Billing: seed.Billing,
	}))
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Type: "mysql"})
	assert.Error(t, err)
}

func TestLoadSeed_Empty(t *testing.T) {
	db := openTestDB(t)

	seed, ok, err := db.LoadSeed(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, seed)
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	want, err := fixtures.Default()
	require.NoError(t, err)
	want.User.LastLogin = time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC)

	saveSeed(t, db, want)

	got, ok, err := db.LoadSeed(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, got.Domains, len(want.Domains))
	for i := range want.Domains {
		w, g := want.Domains[i], got.Domains[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Status, g.Status)
		assert.Equal(t, w.Nameservers, g.Nameservers)
		assert.Equal(t, w.AutoRenew, g.AutoRenew)
		assert.True(t, w.ExpirationDate.Equal(g.ExpirationDate), "expiration of %s", w.ID)
		assert.True(t, w.RegistrationDate.Equal(g.RegistrationDate), "registration of %s", w.ID)
	}

	require.Len(t, got.History, len(want.History))
	for i := range want.History {
		assert.Equal(t, want.History[i].ID, got.History[i].ID)
		assert.Equal(t, want.History[i].Action, got.History[i].Action)
		assert.Equal(t, want.History[i].Cost, got.History[i].Cost)
	}

	assert.Equal(t, want.MXRecords, got.MXRecords)

	assert.Equal(t, want.User.Email, got.User.Email)
	assert.Equal(t, want.User.Address, got.User.Address)
	assert.True(t, want.User.LastLogin.Equal(got.User.LastLogin))

	require.Len(t, got.Billing, len(want.Billing))
	for i := range want.Billing {
		assert.Equal(t, want.Billing[i].InvoiceNumber, got.Billing[i].InvoiceNumber)
		assert.Equal(t, want.Billing[i].Status, got.Billing[i].Status)
		assert.InDelta(t, want.Billing[i].Amount, got.Billing[i].Amount, 0.001)
	}
}

func TestSaveDomainSnapshot_Replaces(t *testing.T) {
	db := openTestDB(t)
	seed, err := fixtures.Default()
	require.NoError(t, err)
	saveSeed(t, db, seed)

	ctx := context.Background()
	require.NoError(t, db.SaveDomainSnapshot(ctx, store.DomainSnapshot{
		Version: 1,
		Domains: seed.Domains[:1],
	}))

	got, ok, err := db.LoadSeed(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Domains, 1)
	assert.Empty(t, got.History)
	assert.Empty(t, got.MXRecords)
}

func TestSaveDomainSnapshot_SkipsStale(t *testing.T) {
	db := openTestDB(t)
	seed, err := fixtures.Default()
	require.NoError(t, err)
	ctx := context.Background()

	saveSeed(t, db, seed)
	require.NoError(t, db.SaveDomainSnapshot(ctx, store.DomainSnapshot{Version: 5, Domains: seed.Domains}))
	require.NoError(t, db.SaveDomainSnapshot(ctx, store.DomainSnapshot{Version: 3, Domains: seed.Domains[:1]}))

	got, _, err := db.LoadSeed(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Domains, len(seed.Domains))
}

func TestStoreSubscriberMirrorsChanges(t *testing.T) {
	db := openTestDB(t)
	seed, err := fixtures.Default()
	require.NoError(t, err)
	saveSeed(t, db, seed)

	ctx := context.Background()
	ds := store.NewDomainStore(seed.Domains, seed.History, seed.MXRecords)
	ds.Subscribe(func(snap store.DomainSnapshot) {
		require.NoError(t, db.SaveDomainSnapshot(ctx, snap))
	})

	_, err = ds.RenewDomain(seed.Domains[0].ID, 2)
	require.NoError(t, err)

	got, ok, err := db.LoadSeed(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.History, len(seed.History)+1)
	assert.Equal(t, models.ActionRenewed, got.History[0].Action)
	assert.True(t, got.Domains[0].ExpirationDate.Equal(seed.Domains[0].ExpirationDate.AddDate(2, 0, 0)))
}

func TestExport_RecordsDownload(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	record := models.BillingRecord{ID: "b1", InvoiceNumber: "INV-2024-001", DomainName: "example.com", Amount: 12.99}

	require.NoError(t, db.Export(ctx, record))
	require.NoError(t, db.Export(ctx, record))

	downloads, err := db.InvoiceDownloads(ctx)
	require.NoError(t, err)
	require.Len(t, downloads, 2)
	assert.Equal(t, "INV-2024-001", downloads[0].InvoiceNumber)
	assert.Equal(t, "b1", downloads[1].BillingID)
}

var _ store.InvoiceExporter = (*DB)(nil)
