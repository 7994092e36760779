package facility

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	facilityService "github.com/orgconsole/admin-api/internal/service/facility"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service facilityService.FacilityServicer
}

func NewHandler(service facilityService.FacilityServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	facilities := r.Group("/facilities")
	{
		facilities.POST("", eventTracker.TrackEvent("facility", "create"), h.CreateFacility)
		facilities.GET("", h.ListFacilities)
		facilities.GET("/:id", h.GetFacility)
		facilities.PUT("/:id", eventTracker.TrackEvent("facility", "update"), h.UpdateFacility)
		facilities.DELETE("/:id", eventTracker.TrackEvent("facility", "delete"), h.DeleteFacility)
	}
}

func (h *Handler) CreateFacility(c *gin.Context) {
	var req model.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	facility := &model.Facility{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
	}
	if err := h.service.CreateFacility(c.Request.Context(), facility); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, facility)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(facility))
}

func (h *Handler) GetFacility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	facility, err := h.service.GetFacility(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(facility))
}

func (h *Handler) UpdateFacility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	var req model.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	facility, err := h.service.GetFacility(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Name != nil {
		facility.Name = *req.Name
	}
	if req.Address != nil {
		facility.Address = *req.Address
	}
	if req.Phone != nil {
		facility.Phone = *req.Phone
	}
	if req.Status != nil {
		facility.Status = model.FacilityStatus(*req.Status)
	}

	if err := h.service.UpdateFacility(c.Request.Context(), facility); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, facility)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(facility))
}

func (h *Handler) DeleteFacility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	if err := h.service.DeleteFacility(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListFacilities(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Query("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("workspace_id query parameter is required"))
		return
	}

	facilities, err := h.service.ListFacilities(c.Request.Context(), workspaceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(facilities))
}
