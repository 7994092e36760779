package training

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	trainingService "github.com/orgconsole/admin-api/internal/service/training"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service trainingService.TrainingServicer
}

func NewHandler(service trainingService.TrainingServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	events := r.Group("/training-events")
	{
		events.POST("", eventTracker.TrackEvent("training_event", "create"), h.CreateEvent)
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.PUT("/:id", eventTracker.TrackEvent("training_event", "update"), h.UpdateEvent)
		events.POST("/:id/cancel", eventTracker.TrackEvent("training_event", "cancel"), h.CancelEvent)
		events.POST("/:id/register", eventTracker.TrackEvent("training_event", "register"), h.Register)
		events.POST("/:id/check-in", eventTracker.TrackEvent("training_event", "check_in"), h.CheckIn)
		events.GET("/:id/stats", h.AttendanceStats)
	}
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req model.CreateTrainingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	ev := &model.TrainingEvent{
		WorkspaceID: workspaceID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}
	if req.FacilityID != nil {
		facilityID, err := uuid.Parse(*req.FacilityID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
			return
		}
		ev.FacilityID = &facilityID
	}

	if err := h.service.CreateEvent(c.Request.Context(), ev); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, ev)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(ev))
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event ID"))
		return
	}

	ev, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ev))
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event ID"))
		return
	}

	var req model.UpdateTrainingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ev, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Title != nil {
		ev.Title = *req.Title
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Location != nil {
		ev.Location = *req.Location
	}
	if req.StartTime != nil {
		ev.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		ev.EndTime = *req.EndTime
	}
	if req.Capacity != nil {
		ev.Capacity = *req.Capacity
	}

	if err := h.service.UpdateEvent(c.Request.Context(), ev); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, ev)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ev))
}

func (h *Handler) CancelEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event ID"))
		return
	}

	var req struct {
		OrganizationID string `json:"organization_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	if err := h.service.CancelEvent(c.Request.Context(), id, orgID); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListEvents(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Query("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("workspace_id query parameter is required"))
		return
	}

	filters := &model.TrainingEventFilters{
		WorkspaceID: workspaceID,
		Status:      c.Query("status"),
	}
	if raw := c.Query("facility_id"); raw != "" {
		facilityID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
			return
		}
		filters.FacilityID = &facilityID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from timestamp"))
			return
		}
		filters.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to timestamp"))
			return
		}
		filters.To = to
	}

	events, err := h.service.ListEvents(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}

func (h *Handler) Register(c *gin.Context) {
	eventID, userID, ok := h.attendanceIDs(c)
	if !ok {
		return
	}

	if err := h.service.Register(c.Request.Context(), eventID, userID); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"event_id": eventID, "user_id": userID})
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) CheckIn(c *gin.Context) {
	eventID, userID, ok := h.attendanceIDs(c)
	if !ok {
		return
	}

	if err := h.service.CheckIn(c.Request.Context(), eventID, userID); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"event_id": eventID, "user_id": userID})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) attendanceIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event ID"))
		return uuid.Nil, uuid.Nil, false
	}

	var req struct {
		UserID string `json:"user_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return uuid.Nil, uuid.Nil, false
	}
	return eventID, userID, true
}

func (h *Handler) AttendanceStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event ID"))
		return
	}

	stats, err := h.service.AttendanceStats(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
