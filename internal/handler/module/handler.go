package module

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	moduleService "github.com/orgconsole/admin-api/internal/service/module"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service moduleService.ModuleServicer
}

func NewHandler(service moduleService.ModuleServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	modules := r.Group("/modules")
	{
		modules.POST("", eventTracker.TrackEvent("module", "create"), h.CreateModule)
		modules.GET("", h.ListModules)
		modules.GET("/:id", h.GetModule)
		modules.PUT("/:id", eventTracker.TrackEvent("module", "update"), h.UpdateModule)
		modules.DELETE("/:id", eventTracker.TrackEvent("module", "delete"), h.DeleteModule)
		modules.PUT("/:id/activation", eventTracker.TrackEvent("module", "activation"), h.SetSystemActive)
	}

	workspaces := r.Group("/workspaces/:id/modules")
	{
		workspaces.GET("", h.ListWorkspaceAvailability)
		workspaces.GET("/:moduleId", h.ModuleAvailability)
		workspaces.PUT("/:moduleId", eventTracker.TrackEvent("module", "workspace_toggle"), h.SetWorkspaceEnabled)
	}

	access := r.Group("/module-access")
	{
		access.PUT("/roles/:role", eventTracker.TrackEvent("module_access", "role_grant"), h.UpsertRoleAccess)
		access.PUT("/custom-roles/:id", eventTracker.TrackEvent("module_access", "custom_role_grant"), h.UpsertCustomRoleAccess)
		access.PUT("/users/:id", eventTracker.TrackEvent("module_access", "user_override"), h.UpsertUserOverride)
		access.DELETE("/users/:id/modules/:moduleId", eventTracker.TrackEvent("module_access", "user_override_delete"), h.DeleteUserOverride)
	}

	users := r.Group("/users/:id/modules")
	{
		users.GET("/:moduleId/capabilities", h.EffectiveCapabilities)
	}
}

func (h *Handler) CreateModule(c *gin.Context) {
	var req model.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m := &model.Module{
		Key:       req.Key,
		Name:      req.Name,
		IsActive:  req.IsActive,
		DependsOn: req.DependsOn,
	}
	if err := h.service.CreateModule(c.Request.Context(), m); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, m)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(m))
}

func (h *Handler) GetModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	m, err := h.service.GetModule(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) UpdateModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	var req model.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.GetModule(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.DependsOn != nil {
		m.DependsOn = req.DependsOn
	}

	if err := h.service.UpdateModule(c.Request.Context(), m); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, m)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) DeleteModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	if err := h.service.DeleteModule(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListModules(c *gin.Context) {
	modules, err := h.service.ListModules(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(modules))
}

func (h *Handler) SetSystemActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SetSystemActive(c.Request.Context(), id, req.IsActive); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id, "is_active": req.IsActive})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListWorkspaceAvailability(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	availability, err := h.service.ListWorkspaceAvailability(c.Request.Context(), workspaceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(availability))
}

func (h *Handler) ModuleAvailability(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}
	moduleID, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	state, err := h.service.ModuleAvailability(c.Request.Context(), workspaceID, moduleID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"state": state}))
}

func (h *Handler) SetWorkspaceEnabled(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}
	moduleID, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	var req model.SetWorkspaceModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SetWorkspaceEnabled(c.Request.Context(), workspaceID, moduleID, req.IsEnabled); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"workspace_id": workspaceID, "module_id": moduleID, "is_enabled": req.IsEnabled})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UpsertRoleAccess(c *gin.Context) {
	role := model.RoleType(c.Param("role"))

	var req model.GrantModuleAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	row := &model.RoleModuleAccess{
		Role:     role,
		ModuleID: moduleID,
		Capabilities: model.Capabilities{
			CanView:   req.CanView,
			CanEdit:   req.CanEdit,
			CanDelete: req.CanDelete,
			CanAdmin:  req.CanAdmin,
		},
	}
	if err := h.service.UpsertRoleAccess(c.Request.Context(), row); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, row)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(row))
}

func (h *Handler) UpsertCustomRoleAccess(c *gin.Context) {
	customRoleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid custom role ID"))
		return
	}

	var req model.GrantModuleAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	row := &model.CustomRoleModuleAccess{
		CustomRoleID: customRoleID,
		ModuleID:     moduleID,
		Capabilities: model.Capabilities{
			CanView:   req.CanView,
			CanEdit:   req.CanEdit,
			CanDelete: req.CanDelete,
			CanAdmin:  req.CanAdmin,
		},
	}
	if err := h.service.UpsertCustomRoleAccess(c.Request.Context(), row); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, row)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(row))
}

func (h *Handler) UpsertUserOverride(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req model.GrantModuleAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	row := &model.UserModuleAccess{
		UserID:   userID,
		ModuleID: moduleID,
		Capabilities: model.Capabilities{
			CanView:   req.CanView,
			CanEdit:   req.CanEdit,
			CanDelete: req.CanDelete,
			CanAdmin:  req.CanAdmin,
		},
	}
	if err := h.service.UpsertUserOverride(c.Request.Context(), row); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, row)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(row))
}

func (h *Handler) DeleteUserOverride(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}
	moduleID, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	if err := h.service.DeleteUserOverride(c.Request.Context(), userID, moduleID); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"user_id": userID, "module_id": moduleID})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) EffectiveCapabilities(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}
	moduleID, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	caps, err := h.service.EffectiveCapabilities(c.Request.Context(), userID, moduleID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(caps))
}
