package controllers

import (
	"net/http"
	"strconv"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/ledger"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDayBook returns the merged financial day book: invoices, billable
// completed services not yet invoiced, and expenses as signed debits.
// The range is capped server-side; the Truncated flag in the page tells
// the client when that happened.
func GetDayBook(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		to = d
	}
	if to.Before(from) {
		utils.RespondWithError(c, http.StatusBadRequest, "Range end is before range start")
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	page, summary, err := ledger.NewAggregator(config.DB).DayBook(from, to, offset, limit)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build day book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "summary": summary})
}
