// Package fixtures provides the seed data the stores start from.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"domain-portfolio/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed holds the initial state of both stores
type Seed struct {
	Domains   []models.Domain        `yaml:"domains"`
	History   []models.DomainHistory `yaml:"history"`
	MXRecords []models.MXRecord      `yaml:"mx_records"`
	User      models.User            `yaml:"user"`
	Billing   []models.BillingRecord `yaml:"billing"`
}

// Default returns the built-in seed
func Default() (*Seed, error) {
	return Parse(defaultSeed)
}

// Load reads a seed from a YAML file, or the built-in seed when path is empty
func Load(path string) (*Seed, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a YAML seed
func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, err
	}

	// The session user has just logged in
	if seed.User.LastLogin.IsZero() {
		seed.User.LastLogin = time.Now()
	}

	return &seed, nil
}

// Validate checks ids, statuses and expiration dates of the seed
func (s *Seed) Validate() error {
	domains := make(map[string]bool, len(s.Domains))
	for _, d := range s.Domains {
		if d.ID == "" {
			return fmt.Errorf("fixtures: domain %q has no id", d.Name)
		}
		if domains[d.ID] {
			return fmt.Errorf("fixtures: duplicate domain id %q", d.ID)
		}
		if !d.Status.Valid() {
			return fmt.Errorf("fixtures: domain %q has invalid status %q", d.ID, d.Status)
		}
		if d.ExpirationDate.IsZero() {
			return fmt.Errorf("fixtures: domain %q has no expiration date", d.ID)
		}
		domains[d.ID] = true
	}

	mx := make(map[string]bool, len(s.MXRecords))
	for _, r := range s.MXRecords {
		if r.ID == "" || mx[r.ID] {
			return fmt.Errorf("fixtures: missing or duplicate mx record id %q", r.ID)
		}
		mx[r.ID] = true
	}

	billing := make(map[string]bool, len(s.Billing))
	for _, b := range s.Billing {
		if b.ID == "" || billing[b.ID] {
			return fmt.Errorf("fixtures: missing or duplicate billing id %q", b.ID)
		}
		billing[b.ID] = true
	}

	return nil
}
