package fixtures

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"domain-portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	seed, err := Default()
	require.NoError(t, err)

	require.Len(t, seed.Domains, 3)
	assert.Equal(t, "example.com", seed.Domains[0].Name)
	assert.Equal(t, models.StatusActive, seed.Domains[0].Status)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), seed.Domains[0].ExpirationDate)
	assert.Equal(t, []string{"ns1.godaddy.com", "ns2.godaddy.com"}, seed.Domains[0].Nameservers)

	require.Len(t, seed.History, 2)
	require.NotNil(t, seed.History[0].Cost)
	assert.InDelta(t, 24.99, *seed.History[0].Cost, 1e-9)

	require.Len(t, seed.MXRecords, 2)
	assert.Equal(t, "@", seed.MXRecords[0].Hostname)
	assert.Equal(t, 20, seed.MXRecords[1].Priority)

	assert.Equal(t, "john.doe@example.com", seed.User.Email)
	assert.Equal(t, "10001", seed.User.Address.ZipCode)
	assert.False(t, seed.User.LastLogin.IsZero())

	require.Len(t, seed.Billing, 2)
	assert.Equal(t, "INV-2024-001", seed.Billing[0].InvoiceNumber)
	assert.Equal(t, models.BillingPaid, seed.Billing[1].Status)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
domains:
  - id: a
    name: one.dev
    status: pending
    expiration_date: 2030-02-01
user:
  id: u
  email: a@b.c
  last_login: 2024-01-01
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seed, err := Load(path)
	require.NoError(t, err)
	require.Len(t, seed.Domains, 1)
	assert.Equal(t, models.StatusPending, seed.Domains[0].Status)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), seed.User.LastLogin)
	assert.Empty(t, seed.Billing)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
domains:
  - {id: "1", name: a.com, status: active, expiration_date: 2030-01-01}
  - {id: "1", name: b.com, status: active, expiration_date: 2030-01-01}
`,
		"bad status": `
domains:
  - {id: "1", name: a.com, status: parked, expiration_date: 2030-01-01}
`,
		"no expiration": `
domains:
  - {id: "1", name: a.com, status: active}
`,
		"duplicate mx": `
mx_records:
  - {id: "1", domain_id: "1", target: a}
  - {id: "1", domain_id: "1", target: b}
`,
		"not yaml": "domains: [",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			require.Error(t, err)
		})
	}
}
