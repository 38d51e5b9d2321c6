package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/campus-events/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	Sessions       middleware.SessionAcquirer
	SessionTTL     time.Duration
	RequestTimeout time.Duration
}

func InitRoutes(opts RouterOptions, eventHandler *EventHandler, rsvpHandler *RSVPHandler, reminderHandler *ReminderHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	if opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(opts.RequestTimeout))
	}

	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/:id", eventHandler.GetEvent)
		}
		api.GET("/categories", eventHandler.GetCategories)

		// everything below is per visitor
		session := middleware.Session(opts.Sessions, opts.SessionTTL)

		rsvp := api.Group("/rsvp", session)
		{
			rsvp.GET("/events", rsvpHandler.GetEvents)
			rsvp.POST("/events/:id/toggle", rsvpHandler.Toggle)
			rsvp.GET("/memberships", rsvpHandler.GetMemberships)
			rsvp.GET("/calendar.ics", rsvpHandler.ExportCalendar)
		}

		reminders := api.Group("/reminders", session)
		{
			reminders.GET("", reminderHandler.GetReminders)
			reminders.GET("/cancelled", reminderHandler.GetCancelled)
			reminders.PUT("/settings", reminderHandler.UpdateSettings)
			reminders.POST("/send", reminderHandler.Send)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
