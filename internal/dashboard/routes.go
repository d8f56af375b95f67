package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zulandar/wardroom/internal/app"
	"github.com/zulandar/wardroom/internal/models"
	"github.com/zulandar/wardroom/internal/requests"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, a *app.App) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Metrics.Registry(), promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.GET("/summary", handleSummary(a))
	api.GET("/health", handleHealth(a))
	api.GET("/events", handleSSE(a))

	api.GET("/rooms", handleRooms(a))
	api.GET("/rooms/:id/messages", handleRoomMessages(a))
	api.POST("/rooms/:id/messages", handlePostMessage(a))
	api.POST("/rooms/:id/read", handleMarkRead(a))

	api.GET("/notes/templates", handleTemplates(a))
	api.GET("/notes", handleNotes(a))
	api.POST("/notes", handleSaveNote(a))
	api.POST("/notes/:id/submit", handleSubmitDraft(a))

	api.GET("/requests/types", handleRequestTypes(a))
	api.GET("/requests", handleRequests(a))
	api.POST("/requests", handleSubmitRequest(a))
	api.POST("/requests/:id/status", handleRequestStatus(a))
	api.POST("/requests/:id/assign", handleAssign(a))

	api.GET("/announcements", handleAnnouncements(a))
	api.POST("/announcements", handlePublish(a))
	api.POST("/announcements/:id/dismiss", handleDismiss(a))
}

// writeError maps engine errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "violations": ve.Violations})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id " + strconv.Quote(c.Param("id"))})
		return 0, false
	}
	return id, true
}

func handleSummary(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Summary())
	}
}

func handleHealth(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		errs := a.PersistErrors()
		if len(errs) == 0 {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		slots := make(map[string]string, len(errs))
		for name, err := range errs {
			slots[name] = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "persistence": slots})
	}
}

// Messaging.

func handleRooms(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Messaging.Rooms())
	}
}

func handleRoomMessages(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.Messaging.Room(c.Param("id")); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, a.Messaging.Messages(c.Param("id")))
	}
}

type postMessageBody struct {
	Text     string `json:"text" binding:"required"`
	Reaction string `json:"reaction"`
}

func handlePostMessage(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body postMessageBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		msg, ok := a.Messaging.Post(c.Param("id"), body.Text, true, body.Reaction, models.LocalUser)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

func handleMarkRead(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := a.Messaging.Room(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		a.Messaging.MarkRead(room.ID)
		c.Status(http.StatusNoContent)
	}
}

// Notes.

func handleTemplates(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Notes.Templates())
	}
}

func handleNotes(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Query("state") {
		case "pending":
			c.JSON(http.StatusOK, a.Notes.PendingNotes())
		case "submitted":
			c.JSON(http.StatusOK, a.Notes.SubmittedNotes())
		case "":
			c.JSON(http.StatusOK, a.Notes.Notes())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "state must be pending or submitted"})
		}
	}
}

type saveNoteBody struct {
	TemplateID string                       `json:"template_id" binding:"required"`
	Values     map[string]models.FieldValue `json:"values"`
	Draft      bool                         `json:"draft"`
}

func handleSaveNote(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body saveNoteBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		save := a.Notes.Submit
		if body.Draft {
			save = a.Notes.SaveDraft
		}
		note, err := save(body.TemplateID, body.Values)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, note)
	}
}

func handleSubmitDraft(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		note, err := a.Notes.SubmitDraft(id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, note)
	}
}

// Requests.

func handleRequestTypes(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Requests.Types())
	}
}

func handleRequests(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Query("view") {
		case "active":
			c.JSON(http.StatusOK, a.Requests.Active())
		case "completed":
			c.JSON(http.StatusOK, a.Requests.Completed())
		case "":
			c.JSON(http.StatusOK, a.Requests.All())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "view must be active or completed"})
		}
	}
}

type submitRequestBody struct {
	TypeID      string          `json:"type_id" binding:"required"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Location    string          `json:"location"`
}

func handleSubmitRequest(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body submitRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		r, err := a.Requests.Submit(requests.SubmitOpts{
			TypeID:      body.TypeID,
			Description: body.Description,
			Priority:    body.Priority,
			Location:    body.Location,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

type statusBody struct {
	Status models.RequestStatus `json:"status" binding:"required"`
	Notes  string               `json:"notes"`
}

func handleRequestStatus(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var body statusBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := a.Requests.UpdateStatus(id, body.Status, body.Notes); err != nil {
			writeError(c, err)
			return
		}
		r, _ := a.Requests.Request(id)
		c.JSON(http.StatusOK, r)
	}
}

type assignBody struct {
	AssignedTo string `json:"assigned_to" binding:"required"`
}

func handleAssign(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var body assignBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := a.Requests.Assign(id, body.AssignedTo); err != nil {
			writeError(c, err)
			return
		}
		r, _ := a.Requests.Request(id)
		c.JSON(http.StatusOK, r)
	}
}

// Announcements.

func handleAnnouncements(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("all") == "true" {
			c.JSON(http.StatusOK, a.Announcements.All())
			return
		}
		c.JSON(http.StatusOK, a.Announcements.Active())
	}
}

type publishBody struct {
	Title string                  `json:"title"`
	Body  string                  `json:"body"`
	Kind  models.AnnouncementKind `json:"kind"`
	Icon  string                  `json:"icon"`
}

func handlePublish(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body publishBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		ann, err := a.Announcements.Publish(body.Title, body.Body, body.Kind, body.Icon)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ann)
	}
}

func handleDismiss(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := a.Announcements.Dismiss(id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
