// Package database mirrors the in-memory stores into SQLite so a restarted
// server resumes from the last saved state.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"domain-portfolio/internal/config"
	"domain-portfolio/internal/fixtures"
	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	domainsSnapshot = "domains"
	profileSnapshot = "profile"
)

// DB is the persistence mirror
type DB struct {
	db  *gorm.DB
	log *logrus.Entry

	mu    sync.Mutex
	saved map[string]uint64 // Last version written per snapshot, this process only
}

// Open connects to the database described by cfg and migrates the schema
func Open(cfg config.DatabaseConfig) (*DB, error) {
	log := logrus.WithField("component", "database")

	var gdb *gorm.DB
	switch cfg.Type {
	case "sqlite":
		// Use pure Go SQLite driver (modernc.org/sqlite)
		sqlDB, err := sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// One connection keeps ":memory:" databases shared and serializes writers
		sqlDB.SetMaxOpenConns(1)

		gdb, err = gorm.Open(sqlite.Dialector{
			Conn: sqlDB,
		}, &gorm.Config{
			Logger: logger.New(log, logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			}),
		})
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to initialize GORM: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	// Auto migrate the schema
	if err := gdb.AutoMigrate(
		&domainRow{},
		&historyRow{},
		&mxRecordRow{},
		&userRow{},
		&billingRow{},
		&snapshotMeta{},
		&InvoiceDownload{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{db: gdb, log: log, saved: make(map[string]uint64)}, nil
}

// Close releases the underlying connection
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadSeed reads the saved state of both stores. ok is false when nothing
// has been saved yet.
func (d *DB) LoadSeed(ctx context.Context) (seed *fixtures.Seed, ok bool, err error) {
	db := d.db.WithContext(ctx)

	var metas []snapshotMeta
	if err := db.Find(&metas).Error; err != nil {
		return nil, false, fmt.Errorf("failed to read snapshots: %w", err)
	}
	if len(metas) < 2 {
		return nil, false, nil
	}

	var (
		domains []domainRow
		history []historyRow
		mx      []mxRecordRow
		billing []billingRow
		user    userRow
	)
	if err := db.Order("position").Find(&domains).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load domains: %w", err)
	}
	if err := db.Order("position").Find(&history).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load history: %w", err)
	}
	if err := db.Order("position").Find(&mx).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load mx records: %w", err)
	}
	if err := db.Order("position").Find(&billing).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load billing records: %w", err)
	}
	if err := db.Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	seed = &fixtures.Seed{User: user.model()}
	for _, r := range domains {
		seed.Domains = append(seed.Domains, r.model())
	}
	for _, r := range history {
		seed.History = append(seed.History, r.model())
	}
	for _, r := range mx {
		seed.MXRecords = append(seed.MXRecords, r.model())
	}
	for _, r := range billing {
		seed.Billing = append(seed.Billing, r.model())
	}

	if err := seed.Validate(); err != nil {
		return nil, false, fmt.Errorf("saved state is invalid: %w", err)
	}
	return seed, true, nil
}

// SaveDomainSnapshot replaces the saved domain state with snap.
// Snapshots older than the last one written are ignored.
func (d *DB) SaveDomainSnapshot(ctx context.Context, snap store.DomainSnapshot) error {
	return d.save(ctx, domainsSnapshot, snap.Version, func(tx *gorm.DB) error {
		domains := make([]domainRow, 0, len(snap.Domains))
		for i, dom := range snap.Domains {
			domains = append(domains, toDomainRow(i, dom))
		}
		history := make([]historyRow, 0, len(snap.History))
		for i, h := range snap.History {
			history = append(history, toHistoryRow(i, h))
		}
		mx := make([]mxRecordRow, 0, len(snap.MXRecords))
		for i, r := range snap.MXRecords {
			mx = append(mx, toMXRecordRow(i, r))
		}

		if err := replaceAll(tx, domains); err != nil {
			return fmt.Errorf("failed to save domains: %w", err)
		}
		if err := replaceAll(tx, history); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		if err := replaceAll(tx, mx); err != nil {
			return fmt.Errorf("failed to save mx records: %w", err)
		}
		return nil
	})
}

// SaveProfileSnapshot replaces the saved profile state with snap.
// Snapshots older than the last one written are ignored.
func (d *DB) SaveProfileSnapshot(ctx context.Context, snap store.ProfileSnapshot) error {
	return d.save(ctx, profileSnapshot, snap.Version, func(tx *gorm.DB) error {
		billing := make([]billingRow, 0, len(snap.Billing))
		for i, b := range snap.Billing {
			billing = append(billing, toBillingRow(i, b))
		}

		if err := replaceAll(tx, []userRow{toUserRow(snap.User)}); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := replaceAll(tx, billing); err != nil {
			return fmt.Errorf("failed to save billing records: %w", err)
		}
		return nil
	})
}

func (d *DB) save(ctx context.Context, name string, version uint64, write func(tx *gorm.DB) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.saved[name]; ok && version <= last {
		d.log.WithFields(logrus.Fields{"snapshot": name, "version": version}).Debug("Skipping stale snapshot")
		return nil
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := write(tx); err != nil {
			return err
		}
		meta := snapshotMeta{Name: name, Version: version, SavedAt: time.Now()}
		return tx.Save(&meta).Error
	})
	if err != nil {
		return err
	}

	d.saved[name] = version
	return nil
}

// replaceAll deletes every row of T's table and inserts rows
func replaceAll[T any](tx *gorm.DB, rows []T) error {
	var zero T
	if err := tx.Where("1 = 1").Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// Export records an invoice download. It lets the database act as an
// invoice exporter next to the log exporter.
func (d *DB) Export(ctx context.Context, record models.BillingRecord) error {
	download := InvoiceDownload{
		BillingID:     record.ID,
		InvoiceNumber: record.InvoiceNumber,
		DomainName:    record.DomainName,
		Amount:        record.Amount,
		DownloadedAt:  time.Now(),
	}
	if err := d.db.WithContext(ctx).Create(&download).Error; err != nil {
		return fmt.Errorf("failed to record invoice download: %w", err)
	}
	return nil
}

// InvoiceDownloads lists recorded downloads, oldest first
func (d *DB) InvoiceDownloads(ctx context.Context) ([]InvoiceDownload, error) {
	var downloads []InvoiceDownload
	if err := d.db.WithContext(ctx).Order("id").Find(&downloads).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoice downloads: %w", err)
	}
	return downloads, nil
}
