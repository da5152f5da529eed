package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/middleware"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/store"
)

// EventStore is the part of the event store the event handlers need.
type EventStore interface {
	Insert(ctx context.Context, event *models.Event) (string, error)
	All(ctx context.Context) ([]models.Event, error)
	ByCreator(ctx context.Context, creator string) ([]models.Event, error)
	Filter(ctx context.Context, f store.EventFilter) ([]models.Event, error)
	UpdateOwned(ctx context.Context, id primitive.ObjectID, owner string, upd store.EventUpdate) (*models.Event, error)
	DeleteOwned(ctx context.Context, id primitive.ObjectID, owner string) error
	Join(ctx context.Context, id primitive.ObjectID, userID string) error
}

// CreateEventInput is the request body for creating an event. AttendeeCount
// is accepted as any JSON value and coerced to a non-negative integer.
type CreateEventInput struct {
	Title         string `json:"title" binding:"required"`
	Name          string `json:"name"`
	DateTime      string `json:"dateTime" binding:"required"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	AttendeeCount any    `json:"attendeeCount"`
}

// UpdateEventInput allows partial updates. Absent fields stay untouched, so a
// field cannot be unset this way. Date and Time, when both supplied, combine
// into a single dateTime and win over a directly supplied DateTime.
type UpdateEventInput struct {
	Title         *string `json:"title"`
	Name          *string `json:"name"`
	DateTime      *string `json:"dateTime"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	Location      *string `json:"location"`
	Description   *string `json:"description"`
	AttendeeCount any     `json:"attendeeCount"`
}

// EventController serves the event CRUD, filter and join routes.
type EventController struct {
	Events EventStore
	Logger zerolog.Logger
}

func NewEventController(events EventStore, logger zerolog.Logger) *EventController {
	return &EventController{Events: events, Logger: logger}
}

// Create inserts a new event owned by the authenticated caller.
func (e *EventController) Create(c *gin.Context) {
	var input CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	dateTime, err := parseDateTime(input.DateTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid dateTime"})
		return
	}

	event := models.Event{
		Title:         input.Title,
		Name:          input.Name,
		DateTime:      dateTime,
		Location:      input.Location,
		Description:   input.Description,
		AttendeeCount: coerceCount(input.AttendeeCount),
		CreatedBy:     user.ID,
		CreatedAt:     time.Now().UTC(),
	}
	id, err := e.Events.Insert(c.Request.Context(), &event)
	if err != nil {
		e.Logger.Error().Err(err).Msg("create event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"acknowledged": true, "insertedId": id})
}

// ListAll returns every event, newest dateTime first.
func (e *EventController) ListAll(c *gin.Context) {
	events, err := e.Events.All(c.Request.Context())
	if err != nil {
		e.Logger.Error().Err(err).Msg("list events failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListMine returns the caller's events, newest dateTime first.
func (e *EventController) ListMine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	events, err := e.Events.ByCreator(c.Request.Context(), user.ID)
	if err != nil {
		e.Logger.Error().Err(err).Msg("list own events failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// Update applies a partial update to an event the caller owns. Ownership sits
// in the store query itself, so a foreign event and a missing event are the
// same 404.
func (e *EventController) Update(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	user, _ := middleware.CurrentUser(c)

	var input UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	upd := store.EventUpdate{
		Title:       input.Title,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
	}
	if input.AttendeeCount != nil {
		n := coerceCount(input.AttendeeCount)
		upd.AttendeeCount = &n
	}

	switch {
	case input.Date != nil && input.Time != nil:
		dt, err := combineDateTime(*input.Date, *input.Time)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date or time"})
			return
		}
		upd.DateTime = &dt
	case input.DateTime != nil:
		dt, err := parseDateTime(*input.DateTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid dateTime"})
			return
		}
		upd.DateTime = &dt
	}

	updated, err := e.Events.UpdateOwned(c.Request.Context(), eventID, user.ID, upd)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	if err != nil {
		e.Logger.Error().Err(err).Msg("update event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update event"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes an event the caller owns, with the same 404 conflation as
// Update.
func (e *EventController) Delete(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	user, _ := middleware.CurrentUser(c)

	err = e.Events.DeleteOwned(c.Request.Context(), eventID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	if err != nil {
		e.Logger.Error().Err(err).Msg("delete event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}

// Filter returns events matching an optional case-insensitive title substring
// and an optional inclusive day range over dateTime, sorted ascending.
func (e *EventController) Filter(c *gin.Context) {
	f := store.EventFilter{Title: c.Query("title")}

	if s := c.Query("startDate"); s != "" {
		day, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid startDate"})
			return
		}
		f.From = &day
	}
	if s := c.Query("endDate"); s != "" {
		day, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid endDate"})
			return
		}
		// inclusive day boundary: anything before the start of the next day
		until := day.AddDate(0, 0, 1)
		f.Until = &until
	}

	events, err := e.Events.Filter(c.Request.Context(), f)
	if err != nil {
		e.Logger.Error().Err(err).Msg("filter events failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// Join adds the caller to an event's attendee set. Count increment and member
// append happen in one store-level update.
func (e *EventController) Join(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	user, _ := middleware.CurrentUser(c)

	err = e.Events.Join(c.Request.Context(), eventID, user.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
	case errors.Is(err, store.ErrAlreadyJoined):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already joined this event"})
	case err != nil:
		e.Logger.Error().Err(err).Msg("join event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not join event"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Joined event successfully"})
	}
}

// dateTimeLayouts are accepted for incoming dateTime strings. Layouts without
// a zone are taken as UTC.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized dateTime format")
}

func combineDateTime(date, clock string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, date+"T"+clock, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date/time format")
}

// coerceCount turns an arbitrary JSON value into a non-negative attendee
// count. Numbers are truncated, numeric strings parsed, everything else is 0.
func coerceCount(v any) int {
	var n int
	switch x := v.(type) {
	case float64:
		n = int(x)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
