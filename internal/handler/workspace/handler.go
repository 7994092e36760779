package workspace

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	workspaceService "github.com/orgconsole/admin-api/internal/service/workspace"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service workspaceService.WorkspaceServicer
}

func NewHandler(service workspaceService.WorkspaceServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	workspaces := r.Group("/workspaces")
	{
		workspaces.POST("", eventTracker.TrackEvent("workspace", "create"), h.CreateWorkspace)
		workspaces.GET("", h.ListWorkspaces)
		workspaces.GET("/:id", h.GetWorkspace)
		workspaces.PUT("/:id", eventTracker.TrackEvent("workspace", "update"), h.UpdateWorkspace)
		workspaces.DELETE("/:id", eventTracker.TrackEvent("workspace", "delete"), h.DeleteWorkspace)
	}
}

func (h *Handler) CreateWorkspace(c *gin.Context) {
	var req model.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	ws := &model.Workspace{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := h.service.CreateWorkspace(c.Request.Context(), ws); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, ws)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(ws))
}

func (h *Handler) GetWorkspace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	ws, err := h.service.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ws))
}

func (h *Handler) UpdateWorkspace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	var req model.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ws, err := h.service.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Description != nil {
		ws.Description = *req.Description
	}
	if req.Status != nil {
		ws.Status = model.WorkspaceStatus(*req.Status)
	}

	if err := h.service.UpdateWorkspace(c.Request.Context(), ws); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, ws)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ws))
}

func (h *Handler) DeleteWorkspace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	if err := h.service.DeleteWorkspace(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListWorkspaces(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("organization_id query parameter is required"))
		return
	}

	workspaces, err := h.service.ListWorkspaces(c.Request.Context(), orgID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(workspaces))
}
