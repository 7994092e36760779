package organization

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	orgService "github.com/orgconsole/admin-api/internal/service/organization"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service orgService.OrganizationServicer
}

func NewHandler(service orgService.OrganizationServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	orgs := r.Group("/organizations")
	{
		orgs.POST("", eventTracker.TrackEvent("organization", "create"), h.CreateOrganization)
		orgs.GET("", h.ListOrganizations)
		orgs.GET("/:id", h.GetOrganization)
		orgs.PUT("/:id", eventTracker.TrackEvent("organization", "update"), h.UpdateOrganization)
		orgs.DELETE("/:id", eventTracker.TrackEvent("organization", "delete"), h.DeleteOrganization)
	}
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req model.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	org := &model.Organization{
		Name:          req.Name,
		MaxFacilities: req.MaxFacilities,
		MaxUsers:      req.MaxUsers,
	}
	if err := h.service.CreateOrganization(c.Request.Context(), org); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, org)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(org))
}

func (h *Handler) GetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	org, err := h.service.GetOrganization(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(org))
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	var req model.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	org, err := h.service.GetOrganization(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Status != nil {
		org.Status = model.OrganizationStatus(*req.Status)
	}
	if req.MaxFacilities != nil {
		org.MaxFacilities = *req.MaxFacilities
	}
	if req.MaxUsers != nil {
		org.MaxUsers = *req.MaxUsers
	}

	if err := h.service.UpdateOrganization(c.Request.Context(), org); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, org)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(org))
}

func (h *Handler) DeleteOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	if err := h.service.DeleteOrganization(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	orgs, err := h.service.ListOrganizations(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(orgs))
}
