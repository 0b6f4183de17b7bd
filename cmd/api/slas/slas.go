package slas

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apppkg "github.com/timmytot666/ticketing-go/cmd/api/app"
	slapkg "github.com/timmytot666/ticketing-go/internal/sla"
)

// List returns SLA policies.
func List(a *apppkg.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		policies, err := slapkg.LoadPolicies(c.Request.Context(), a.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, policies)
	}
}

type previewReq struct {
	Start         time.Time `json:"start" binding:"required"`
	BusinessHours float64   `json:"business_hours"`
}

// Preview computes a due instant for an arbitrary start and hour count
// against the active business calendar. Admin UIs use it to sanity-check
// policy targets.
func Preview(a *apppkg.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in previewReq
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		due, err := slapkg.ComputeDueDate(in.Start, in.BusinessHours, a.Cal)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"due_at": due})
	}
}
