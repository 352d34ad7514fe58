package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// newHomeHandler reports the API name and the store's business calendar so a
// till can check that its clock and business day agree with the server.
//
// getHome godoc
// @Summary Show server status and business day
// @Description Returns the API name, store time zone and the current business date.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func newHomeHandler(loc *time.Location, now func() time.Time) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		local := now().In(loc)
		ctx.JSON(http.StatusOK, gin.H{
			"message":      "POS ledger API v1",
			"timezone":     loc.String(),
			"businessDate": local.Format(dateLayout),
			"serverTime":   local.Format(time.RFC3339),
		})
	}
}
