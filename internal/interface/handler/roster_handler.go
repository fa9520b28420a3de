package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"planche-service/internal/domain/entity"
	"planche-service/internal/domain/patch"
	"planche-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RosterUsecase is the part of the roster service exposed over HTTP
type RosterUsecase interface {
	Submit(ctx context.Context, date entity.Date, cmd entity.UpdateCommand) (*entity.DailyRoster, patch.Delta, error)
	Roster(ctx context.Context, date entity.Date) (*entity.DailyRoster, error)
	RecentUpdates(ctx context.Context, date entity.Date, since time.Time) ([]entity.UpdateCommand, error)
}

// UpdateRequest is the wire form of an update command
type UpdateRequest struct {
	ID        string     `json:"id" binding:"omitempty,uuid"`
	OgnNumber *int       `json:"ogn_nb" binding:"required,min=0"`
	Field     string     `json:"updated_field" binding:"required"`
	NewValue  string     `json:"new_value"`
	Date      string     `json:"date"`
	IssuedAt  *time.Time `json:"issued_at"`
}

// UpdateResponse is returned for an applied update
type UpdateResponse struct {
	Roster  *entity.DailyRoster `json:"roster"`
	Matched int                 `json:"matched"`
}

// RosterHandler serves rosters and accepts updates
type RosterHandler struct {
	rosters RosterUsecase
	logger  logger.Logger
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosters RosterUsecase, logger logger.Logger) *RosterHandler {
	return &RosterHandler{
		rosters: rosters,
		logger:  logger,
	}
}

func pathDate(c *gin.Context) (entity.Date, bool) {
	date, err := entity.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return entity.Date{}, false
	}
	return date, true
}

// SubmitUpdate handles POST /rosters/:date/updates
func (h *RosterHandler) SubmitUpdate(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	cmd := entity.UpdateCommand{
		OgnNumber: *req.OgnNumber,
		Field:     req.Field,
		NewValue:  req.NewValue,
		Date:      date,
	}
	if req.ID != "" {
		cmd.ID = uuid.MustParse(req.ID)
	}
	if req.Date != "" {
		updateDate, err := entity.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update date", "details": err.Error()})
			return
		}
		cmd.Date = updateDate
	}
	if req.IssuedAt != nil {
		cmd.IssuedAt = *req.IssuedAt
	}

	roster, delta, err := h.rosters.Submit(c.Request.Context(), date, cmd)
	if err != nil {
		kind := patch.KindOf(err)
		if kind == "" {
			h.logger.Error("Failed to submit update", "date", date.String(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit update"})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "kind": kind})
		return
	}

	c.JSON(http.StatusOK, UpdateResponse{Roster: roster, Matched: delta.Matched})
}

// GetRoster handles GET /rosters/:date
func (h *RosterHandler) GetRoster(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}

	roster, err := h.rosters.Roster(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("Failed to load roster", "date", date.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roster"})
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ListUpdates handles GET /rosters/:date/updates?since=RFC3339
func (h *RosterHandler) ListUpdates(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since", "details": err.Error()})
			return
		}
		since = parsed
	}

	updates, err := h.rosters.RecentUpdates(c.Request.Context(), date, since)
	if err != nil {
		h.logger.Error("Failed to list updates", "date", date.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list updates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, patch.ErrDateMismatch), errors.Is(err, patch.ErrDuplicateFlight):
		return http.StatusConflict
	case errors.Is(err, patch.ErrUnknownField), errors.Is(err, patch.ErrTimeParse):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
