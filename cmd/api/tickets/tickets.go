package tickets

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	app "github.com/timmytot666/ticketing-go/cmd/api/app"
	"github.com/timmytot666/ticketing-go/internal/metrics"
	"github.com/timmytot666/ticketing-go/internal/ticket"
)

// createTicketReq mirrors the JSON body for creating a ticket.
type createTicketReq struct {
	Title       string  `json:"title" binding:"required,min=3"`
	Description string  `json:"description" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=IT Facilities"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	RequesterID string  `json:"requester_id" binding:"required"`
	AssigneeID  *string `json:"assignee_id"`
}

func bindErrors(err error) map[string]string {
	errs := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			errs[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return errs
}

// Create inserts a new ticket. SLA assignment is best effort: the clock
// matches a policy and computes due dates, and any failure there leaves the
// SLA fields null without failing the creation.
func Create(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in createTicketReq
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
			return
		}
		if in.Priority == "" {
			in.Priority = ticket.PriorityMedium
		}
		now := time.Now().UTC()
		t := &ticket.Ticket{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Description: in.Description,
			Type:        in.Type,
			Status:      ticket.StatusOpen,
			Priority:    in.Priority,
			RequesterID: in.RequesterID,
			AssigneeID:  in.AssigneeID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		a.Clock.ApplyOnCreate(t)
		if err := a.Tickets.Insert(c.Request.Context(), t); err != nil {
			app.AbortError(c, http.StatusInternalServerError, "ticket_insert_failed", err.Error(), nil)
			return
		}
		metrics.TicketsCreatedTotal.Inc()
		c.JSON(http.StatusCreated, t)
	}
}

// Get returns one ticket by id.
func Get(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := a.Tickets.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			app.AbortDB(c, "ticket", err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type changeStatusReq struct {
	Status string `json:"status" binding:"required,oneof=Open 'In Progress' 'On Hold' Closed"`
}

// ChangeStatus moves a ticket through its lifecycle. Entering On Hold pauses
// the SLA clock, leaving it resumes, and the first Open -> In Progress move
// records the response instant.
func ChangeStatus(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in changeStatusReq
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
			return
		}
		t, err := a.Tickets.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			app.AbortDB(c, "ticket", err)
			return
		}
		now := time.Now().UTC()
		from := t.Status
		t.Status = in.Status
		t.UpdatedAt = now
		a.Clock.ApplyStatusChange(t, from, in.Status, now)
		if err := a.Tickets.Update(c.Request.Context(), t); err != nil {
			app.AbortError(c, http.StatusInternalServerError, "ticket_update_failed", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type changePriorityReq struct {
	Priority string `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	Type     string `json:"type" binding:"omitempty,oneof=IT Facilities"`
}

// ChangePriority updates priority and/or type and re-runs the policy match.
// Due dates recompute anchored at the original creation instant; the sticky
// notification flags are left as they are.
func ChangePriority(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in changePriorityReq
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
			return
		}
		if in.Priority == "" && in.Type == "" {
			c.JSON(http.StatusBadRequest, gin.H{"errors": map[string]string{"priority": "priority or type required"}})
			return
		}
		t, err := a.Tickets.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			app.AbortDB(c, "ticket", err)
			return
		}
		if in.Priority != "" {
			t.Priority = in.Priority
		}
		if in.Type != "" {
			t.Type = in.Type
		}
		t.UpdatedAt = time.Now().UTC()
		a.Clock.Reapply(t)
		if err := a.Tickets.Update(c.Request.Context(), t); err != nil {
			app.AbortError(c, http.StatusInternalServerError, "ticket_update_failed", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type commentReq struct {
	AuthorID string `json:"author_id" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

// Comment appends a comment. The first comment from someone other than the
// requester while the ticket is still Open counts as the first qualifying
// response and stops the response SLA clock.
func Comment(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in commentReq
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
			return
		}
		t, err := a.Tickets.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			app.AbortDB(c, "ticket", err)
			return
		}
		now := time.Now().UTC()
		const q = `insert into ticket_comments (id, ticket_id, author_id, body, created_at) values ($1,$2,$3,$4,$5)`
		if _, err := a.DB.Exec(c.Request.Context(), q, uuid.NewString(), t.ID, in.AuthorID, in.Body, now); err != nil {
			app.AbortError(c, http.StatusInternalServerError, "comment_insert_failed", err.Error(), nil)
			return
		}
		if t.Status == ticket.StatusOpen && in.AuthorID != t.RequesterID && t.RespondedAt == nil {
			a.Clock.RecordResponse(t, now)
			t.UpdatedAt = now
			if err := a.Tickets.Update(c.Request.Context(), t); err != nil {
				// Comment already landed; the response mark is best effort.
				log.Ctx(c.Request.Context()).Error().Err(err).Str("ticket", t.ID).Msg("persist first response")
			}
		}
		c.JSON(http.StatusCreated, gin.H{"ticket_id": t.ID, "author_id": in.AuthorID, "created_at": now})
	}
}
