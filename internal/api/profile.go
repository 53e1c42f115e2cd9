package api

import (
	"net/http"

	"domain-portfolio/internal/format"
	"domain-portfolio/internal/models"
	"domain-portfolio/internal/store"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the session user
func (h *Handler) GetProfile(c *gin.Context) {
	user := h.profile.User()
	c.JSON(http.StatusOK, gin.H{
		"user":               user,
		"member_since":       format.FormatDate(user.CreatedAt),
		"last_login_display": format.FormatDate(user.LastLogin),
	})
}

// UpdateProfile merges the request body into the session user
func (h *Handler) UpdateProfile(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.profile.UpdateUser(patch))
}

// ChangePassword handles password change requests
func (h *Handler) ChangePassword(c *gin.Context) {
	var request struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	if err := store.ValidatePasswordChange(request.NewPassword, request.ConfirmPassword); err != nil {
		writeError(c, err)
		return
	}

	if err := h.profile.ChangePassword(c.Request.Context(), request.CurrentPassword, request.NewPassword); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetBilling returns the billing records and their summary
func (h *Handler) GetBilling(c *gin.Context) {
	records := h.profile.Billing()
	summary := store.SummarizeBilling(records)

	c.JSON(http.StatusOK, gin.H{
		"records": newBillingViews(records),
		"summary": billingSummaryView{
			BillingSummary:   summary,
			TotalPaidDisplay: format.FormatCurrency(summary.TotalPaid),
		},
	})
}

// DownloadInvoice hands a billing record's invoice to the exporter
func (h *Handler) DownloadInvoice(c *gin.Context) {
	record, err := h.profile.DownloadInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Downloading invoice " + record.InvoiceNumber,
		"invoice_number": record.InvoiceNumber,
	})
}
