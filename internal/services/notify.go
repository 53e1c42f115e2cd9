package services

import (
	"context"
	"errors"
	"fmt"

	"domain-portfolio/internal/format"
	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"

	"github.com/sirupsen/logrus"
)

// InvoiceService fans an invoice download out to every configured exporter
type InvoiceService struct {
	exporters []store.InvoiceExporter
	log       *logrus.Entry
}

// NewInvoiceService creates an invoice service over the given exporters
func NewInvoiceService(exporters ...store.InvoiceExporter) *InvoiceService {
	return &InvoiceService{
		exporters: exporters,
		log:       logrus.WithField("component", "invoices"),
	}
}

// Export hands the record to every exporter. It fails only when no exporter succeeded.
func (s *InvoiceService) Export(ctx context.Context, record models.BillingRecord) error {
	if len(s.exporters) == 0 {
		return errors.New("no invoice exporter configured")
	}

	var lastErr error
	successCount := 0

	for _, exporter := range s.exporters {
		exporterType := fmt.Sprintf("%T", exporter)
		if err := exporter.Export(ctx, record); err != nil {
			s.log.WithError(err).WithField("exporter", exporterType).Error("Invoice export failed")
			lastErr = err
			continue
		}
		successCount++
	}

	if successCount > 0 {
		return nil
	}
	return lastErr
}

// LogInvoiceExporter records invoice downloads in the log. Rendering the
// invoice document belongs to an external service.
type LogInvoiceExporter struct {
	log *logrus.Entry
}

// NewLogInvoiceExporter creates a log exporter
func NewLogInvoiceExporter() *LogInvoiceExporter {
	return &LogInvoiceExporter{log: logrus.WithField("component", "invoices")}
}

// Export logs the invoice number of record
func (e *LogInvoiceExporter) Export(_ context.Context, record models.BillingRecord) error {
	e.log.WithFields(logrus.Fields{
		"invoice": record.InvoiceNumber,
		"domain":  record.DomainName,
		"amount":  format.FormatCurrency(record.Amount),
	}).Infof("Downloading invoice %s", record.InvoiceNumber)
	return nil
}
