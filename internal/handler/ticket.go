package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/service"
)

// TicketHandler exposes the read-only admin view over the mirrored ticket
// records. Tickets are never created or mutated through HTTP — only
// through the Discord interaction path.
type TicketHandler struct {
	store *service.TicketStore
}

func NewTicketHandler(store *service.TicketStore) *TicketHandler {
	return &TicketHandler{store: store}
}

func (h *TicketHandler) Get(c *gin.Context) {
	rec, err := h.store.GetByChannel(c.Request.Context(), c.Param("channel_id"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *TicketHandler) List(c *gin.Context) {
	filter := make(map[string]interface{})
	if v := c.Query("owner_id"); v != "" {
		filter["owner_id = ?"] = v
	}
	if v := c.Query("category_id"); v != "" {
		filter["category_id = ?"] = v
	}
	if v := c.Query("status"); v != "" {
		filter["status = ?"] = v
	}

	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	items, total, err := h.store.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   total,
	})
}
