package role

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	roleService "github.com/orgconsole/admin-api/internal/service/role"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service roleService.RoleServicer
}

func NewHandler(service roleService.RoleServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	assignments := r.Group("/role-assignments")
	{
		assignments.POST("", eventTracker.TrackEvent("role_assignment", "create"), h.AssignRole)
		assignments.DELETE("/:id", eventTracker.TrackEvent("role_assignment", "delete"), h.RevokeAssignment)
	}

	users := r.Group("/users/:id")
	{
		users.GET("/role-assignments", h.ListUserAssignments)
		users.GET("/scope", h.ResolveScope)
	}

	customRoles := r.Group("/custom-roles")
	{
		customRoles.POST("", eventTracker.TrackEvent("custom_role", "create"), h.CreateCustomRole)
		customRoles.GET("", h.ListCustomRoles)
		customRoles.GET("/:id", h.GetCustomRole)
		customRoles.PUT("/:id", eventTracker.TrackEvent("custom_role", "update"), h.UpdateCustomRole)
		customRoles.DELETE("/:id", eventTracker.TrackEvent("custom_role", "delete"), h.DeleteCustomRole)
	}
}

func parseOptionalUUID(raw *string, target **uuid.UUID) error {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return err
	}
	*target = &id
	return nil
}

func (h *Handler) AssignRole(c *gin.Context) {
	var req model.CreateRoleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	assignment := &model.RoleAssignment{
		UserID: userID,
		Role:   model.RoleType(req.Role),
	}
	for _, field := range []struct {
		raw    *string
		target **uuid.UUID
		name   string
	}{
		{req.CustomRoleID, &assignment.CustomRoleID, "custom role"},
		{req.OrganizationID, &assignment.OrganizationID, "organization"},
		{req.WorkspaceID, &assignment.WorkspaceID, "workspace"},
		{req.FacilityID, &assignment.FacilityID, "facility"},
		{req.DepartmentID, &assignment.DepartmentID, "department"},
		{req.SpecialtyID, &assignment.SpecialtyID, "specialty"},
	} {
		if err := parseOptionalUUID(field.raw, field.target); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid "+field.name+" ID"))
			return
		}
	}

	if err := h.service.AssignRole(c.Request.Context(), assignment); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, assignment)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(assignment))
}

func (h *Handler) RevokeAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid assignment ID"))
		return
	}

	if err := h.service.RevokeAssignment(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListUserAssignments(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	assignments, err := h.service.ListUserAssignments(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(assignments))
}

func (h *Handler) ResolveScope(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	scope, err := h.service.ResolveScope(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(scope))
}

func (h *Handler) CreateCustomRole(c *gin.Context) {
	var req model.CreateCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	role := &model.CustomRole{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := h.service.CreateCustomRole(c.Request.Context(), role); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, role)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(role))
}

func (h *Handler) GetCustomRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid custom role ID"))
		return
	}

	role, err := h.service.GetCustomRole(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(role))
}

func (h *Handler) UpdateCustomRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid custom role ID"))
		return
	}

	var req model.UpdateCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	role, err := h.service.GetCustomRole(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}

	if err := h.service.UpdateCustomRole(c.Request.Context(), role); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, role)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(role))
}

func (h *Handler) DeleteCustomRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid custom role ID"))
		return
	}

	if err := h.service.DeleteCustomRole(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListCustomRoles(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("organization_id query parameter is required"))
		return
	}

	roles, err := h.service.ListCustomRoles(c.Request.Context(), orgID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(roles))
}
