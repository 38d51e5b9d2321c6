package transport

import (
	"net/http"

	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	catalogService service.CatalogService
}

func NewEventHandler(catalogService service.CatalogService) *EventHandler {
	return &EventHandler{catalogService: catalogService}
}

// catalogQuery reads search, category and sort. A missing sort parameter
// means the catalog default; an explicit empty one keeps insertion order.
func catalogQuery(c *gin.Context) service.EventQuery {
	query := service.EventQuery{
		Search:   c.Query("search"),
		Category: entity.Category(c.Query("category")),
		Sort:     service.DefaultCatalogSort,
	}
	if sort, ok := c.GetQuery("sort"); ok {
		query.Sort = service.SortMode(sort)
	}
	return query
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	list, err := h.catalogService.ListEvents(c.Request.Context(), catalogQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	event, err := h.catalogService.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalogService.Categories()})
}
