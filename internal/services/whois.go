package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"domain-portfolio/internal/errs"
	"domain-portfolio/internal/models"
)

// DefaultExtensions are the TLDs offered by the availability search
var DefaultExtensions = []string{
	".com", ".net", ".org", ".io", ".co", ".app", ".dev", ".tech", ".online", ".store",
}

// SearchService answers domain availability searches. No registrar is
// queried: availability and prices are simulated after an artificial delay.
type SearchService struct {
	Extensions []string
	Delay      time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSearchService creates a search service
func NewSearchService(extensions []string, delay time.Duration) *SearchService {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &SearchService{
		Extensions: extensions,
		Delay:      delay,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Search returns one candidate per extension for the given term
func (s *SearchService) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, errs.Invalid("q", "search term must not be empty")
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.SearchResult, 0, len(s.Extensions))
	for _, ext := range s.Extensions {
		results = append(results, models.SearchResult{
			Domain:    term + ext,
			Available: s.rng.Float64() > 0.5,
			Price:     s.rng.Intn(50) + 10,
			Premium:   s.rng.Float64() > 0.8,
		})
	}
	return results, nil
}
