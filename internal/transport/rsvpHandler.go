package transport

import (
	"net/http"

	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/service"
	"github.com/ds124wfegd/campus-events/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

const calendarFilename = "campus-events.ics"

type RSVPHandler struct {
	rsvpService service.RSVPService
}

func NewRSVPHandler(rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

func (h *RSVPHandler) GetEvents(c *gin.Context) {
	query := service.EventQuery{
		Search:   c.Query("search"),
		Category: entity.Category(c.Query("category")),
	}

	list, err := h.rsvpService.ListEvents(c.Request.Context(), middleware.SessionID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Toggle answers 409 when a join is refused; the body still carries the
// unchanged card and the failure notification.
func (h *RSVPHandler) Toggle(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	result, err := h.rsvpService.Toggle(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if !result.Applied {
		status = http.StatusConflict
	}
	c.JSON(status, result)
}

func (h *RSVPHandler) GetMemberships(c *gin.Context) {
	ids, err := h.rsvpService.Memberships(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_ids": ids})
}

func (h *RSVPHandler) ExportCalendar(c *gin.Context) {
	cal, err := h.rsvpService.ExportCalendar(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+calendarFilename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}
