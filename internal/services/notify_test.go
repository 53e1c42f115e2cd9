package services

import (
	"context"
	"errors"
	"testing"

	"domain-portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExporter struct {
	got []string
	err error
}

func (r *recordingExporter) Export(_ context.Context, record models.BillingRecord) error {
	r.got = append(r.got, record.InvoiceNumber)
	return r.err
}

var invoice = models.BillingRecord{ID: "1", InvoiceNumber: "INV-2024-001", DomainName: "example.com", Amount: 24.99}

func TestInvoiceService_FansOut(t *testing.T) {
	a, b := &recordingExporter{}, &recordingExporter{}
	svc := NewInvoiceService(a, b)

	require.NoError(t, svc.Export(context.Background(), invoice))
	assert.Equal(t, []string{"INV-2024-001"}, a.got)
	assert.Equal(t, []string{"INV-2024-001"}, b.got)
}

func TestInvoiceService_PartialFailureSucceeds(t *testing.T) {
	failing := &recordingExporter{err: errors.New("unavailable")}
	svc := NewInvoiceService(failing, &recordingExporter{})

	require.NoError(t, svc.Export(context.Background(), invoice))
}

func TestInvoiceService_AllFail(t *testing.T) {
	boom := errors.New("unavailable")
	svc := NewInvoiceService(&recordingExporter{err: boom})

	require.ErrorIs(t, svc.Export(context.Background(), invoice), boom)
	require.Error(t, NewInvoiceService().Export(context.Background(), invoice))
}

func TestLogInvoiceExporter(t *testing.T) {
	require.NoError(t, NewLogInvoiceExporter().Export(context.Background(), invoice))
}
