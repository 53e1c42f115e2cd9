package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"domain-portfolio/internal/errs"
	"domain-portfolio/internal/format"
	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"

	"github.com/gin-gonic/gin"
)

// dashboardExpiringLimit caps the expiring list on the dashboard
const dashboardExpiringLimit = 5

// defaultMXPriority applies when a new MX record carries no priority
const defaultMXPriority = 10

// Searcher answers domain availability searches
type Searcher interface {
	Search(ctx context.Context, term string) ([]models.SearchResult, error)
}

// Handler holds store and service dependencies
type Handler struct {
	domains *store.DomainStore
	profile *store.ProfileStore
	search  Searcher
	now     func() time.Time
}

// NewHandler creates a new API handler
func NewHandler(domains *store.DomainStore, profile *store.ProfileStore, search Searcher) *Handler {
	return &Handler{
		domains: domains,
		profile: profile,
		search:  search,
		now:     time.Now,
	}
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		// Domain management
		api.GET("/domains", handler.ListDomains)
		api.GET("/domains/:id", handler.GetDomain)
		api.PUT("/domains/:id", handler.UpdateDomain)
		api.DELETE("/domains/:id", handler.DeleteDomain)
		api.POST("/domains/:id/renew", handler.RenewDomain)
		api.GET("/domains/:id/mx", handler.ListDomainMXRecords)

		// History log
		api.GET("/history", handler.ListHistory)

		// MX records
		api.GET("/mx-records", handler.ListMXRecords)
		api.POST("/mx-records", handler.CreateMXRecord)
		api.PUT("/mx-records/:id", handler.UpdateMXRecord)
		api.DELETE("/mx-records/:id", handler.DeleteMXRecord)

		// Dashboard statistics
		api.GET("/dashboard/stats", handler.GetStats)
		api.GET("/dashboard/expiring", handler.GetExpiring)

		// Availability search
		api.GET("/search", handler.SearchDomains)

		// Profile and billing
		api.GET("/profile", handler.GetProfile)
		api.PUT("/profile", handler.UpdateProfile)
		api.POST("/profile/password", handler.ChangePassword)
		api.GET("/billing", handler.GetBilling)
		api.POST("/billing/:id/invoice", handler.DownloadInvoice)
	}
}

// ListDomains retrieves domains filtered by name and status
func (h *Handler) ListDomains(c *gin.Context) {
	status := c.DefaultQuery("status", models.StatusAll)
	if status != models.StatusAll && !models.DomainStatus(status).Valid() {
		writeError(c, errs.Invalid("status", "unknown status "+status))
		return
	}

	domains := h.domains.Filter(c.Query("search"), status)
	c.JSON(http.StatusOK, newDomainViews(domains, h.now()))
}

// GetDomain retrieves a single domain
func (h *Handler) GetDomain(c *gin.Context) {
	domain, err := h.domains.Domain(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDomainView(domain, h.now()))
}

// UpdateDomain merges the request body into a domain
func (h *Handler) UpdateDomain(c *gin.Context) {
	var patch models.DomainPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	domain, err := h.domains.UpdateDomain(c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDomainView(domain, h.now()))
}

// DeleteDomain removes a domain and its MX records
func (h *Handler) DeleteDomain(c *gin.Context) {
	if err := h.domains.DeleteDomain(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Domain deleted successfully"})
}

// RenewDomain renews a domain, by one year unless the body says otherwise
func (h *Handler) RenewDomain(c *gin.Context) {
	var request struct {
		Years *int `json:"years"`
	}
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	years := 1
	if request.Years != nil {
		years = *request.Years
	}

	renewal, err := h.domains.RenewDomain(c.Param("id"), years)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"domain":  newDomainView(renewal.Domain, h.now()),
		"entry":   newHistoryViews([]models.DomainHistory{renewal.Entry})[0],
		"message": renewal.Entry.Details,
	})
}

// ListDomainMXRecords retrieves the MX records of one domain
func (h *Handler) ListDomainMXRecords(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.domains.Domain(id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, store.MXRecordsForDomain(h.domains.MXRecords(), id))
}

// ListHistory retrieves the history log, newest first
func (h *Handler) ListHistory(c *gin.Context) {
	action := c.DefaultQuery("action", models.StatusAll)
	c.JSON(http.StatusOK, newHistoryViews(store.HistoryByAction(h.domains.History(), action)))
}

// ListMXRecords retrieves all MX records
func (h *Handler) ListMXRecords(c *gin.Context) {
	c.JSON(http.StatusOK, h.domains.MXRecords())
}

// CreateMXRecord adds an MX record to an existing domain
func (h *Handler) CreateMXRecord(c *gin.Context) {
	var request struct {
		DomainID string `json:"domain_id"`
		Hostname string `json:"hostname"`
		Priority *int   `json:"priority"`
		Target   string `json:"target"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	record := models.MXRecord{
		DomainID: request.DomainID,
		Hostname: request.Hostname,
		Priority: defaultMXPriority,
		Target:   request.Target,
	}
	if request.Priority != nil {
		record.Priority = *request.Priority
	}

	created, err := h.domains.AddMXRecord(record)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateMXRecord merges the request body into an MX record
func (h *Handler) UpdateMXRecord(c *gin.Context) {
	var patch models.MXRecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.domains.UpdateMXRecord(c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteMXRecord removes an MX record
func (h *Handler) DeleteMXRecord(c *gin.Context) {
	if err := h.domains.DeleteMXRecord(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "MX record deleted successfully"})
}

// GetStats returns dashboard statistics
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, store.ComputeStats(h.domains.Domains(), h.now()))
}

// GetExpiring returns the domains closest to expiry
func (h *Handler) GetExpiring(c *gin.Context) {
	now := h.now()
	domains := store.ExpiringSoon(h.domains.Domains(), now, dashboardExpiringLimit)
	c.JSON(http.StatusOK, newDomainViews(domains, now))
}

// SearchDomains runs an availability search for q
func (h *Handler) SearchDomains(c *gin.Context) {
	query := c.Query("q")
	results, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]searchResultView, 0, len(results))
	for _, r := range results {
		views = append(views, searchResultView{
			SearchResult: r,
			PriceDisplay: format.FormatCurrency(float64(r.Price)),
		})
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": views})
}
