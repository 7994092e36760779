package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	notificationService "github.com/orgconsole/admin-api/internal/service/notification"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service notificationService.Service
}

func NewHandler(service notificationService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("/broadcast", eventTracker.TrackEvent("notification", "broadcast"), h.Broadcast)
	}
}

func (h *Handler) Broadcast(c *gin.Context) {
	var req model.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	input := &notificationService.BroadcastInput{
		OrganizationID: orgID,
		Channel:        req.Channel,
		Subject:        req.Subject,
		Content:        req.Content,
	}
	if req.WorkspaceID != nil {
		workspaceID, err := uuid.Parse(*req.WorkspaceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
			return
		}
		input.WorkspaceID = &workspaceID
	}
	if req.FacilityID != nil {
		facilityID, err := uuid.Parse(*req.FacilityID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
			return
		}
		input.FacilityID = &facilityID
	}
	if req.DepartmentID != nil {
		departmentID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
			return
		}
		input.DepartmentID = &departmentID
	}
	for _, raw := range req.UserIDs {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
			return
		}
		input.UserIDs = append(input.UserIDs, userID)
	}

	result, err := h.service.Broadcast(c.Request.Context(), input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, result)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
