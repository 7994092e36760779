package department

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	departmentService "github.com/orgconsole/admin-api/internal/service/department"
	"github.com/orgconsole/admin-api/pkg/event"
)

type Handler struct {
	service departmentService.DepartmentServicer
}

func NewHandler(service departmentService.DepartmentServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	departments := r.Group("/departments")
	{
		departments.POST("", eventTracker.TrackEvent("department", "create"), h.CreateDepartment)
		departments.GET("/:id", h.GetDepartment)
		departments.PUT("/:id", eventTracker.TrackEvent("department", "update"), h.UpdateDepartment)
		departments.DELETE("/:id", eventTracker.TrackEvent("department", "delete"), h.DeleteDepartment)
		departments.GET("/templates", h.ListTemplates)
		departments.POST("/copy", eventTracker.TrackEvent("department", "copy_templates"), h.CopyTemplates)
	}

	facilities := r.Group("/facilities/:id/departments")
	{
		facilities.GET("", h.ListByFacility)
		facilities.GET("/selectable", h.SelectableDepartments)
	}

	categories := r.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
		return
	}

	dept := &model.Department{
		Name:        req.Name,
		Category:    req.Category,
		WorkspaceID: workspaceID,
		IsTemplate:  req.IsTemplate,
	}
	if req.FacilityID != nil {
		facilityID, err := uuid.Parse(*req.FacilityID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
			return
		}
		dept.FacilityID = &facilityID
	}
	if req.ParentDepartmentID != nil {
		parentID, err := uuid.Parse(*req.ParentDepartmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid parent department ID"))
			return
		}
		dept.ParentDepartmentID = &parentID
	}

	if err := h.service.CreateDepartment(c.Request.Context(), dept); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, dept)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(dept))
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dept))
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	var req model.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.Category != nil {
		dept.Category = *req.Category
	}

	if err := h.service.UpdateDepartment(c.Request.Context(), dept); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, dept)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dept))
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListByFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	depts, err := h.service.ListByFacility(c.Request.Context(), facilityID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(depts))
}

func (h *Handler) ListTemplates(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Query("workspace_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("workspace_id query parameter is required"))
		return
	}

	templates, err := h.service.ListTemplates(c.Request.Context(), workspaceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(templates))
}

func (h *Handler) CopyTemplates(c *gin.Context) {
	var req model.CopyTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	facilityID, err := uuid.Parse(req.FacilityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	templateIDs := make([]uuid.UUID, 0, len(req.TemplateIDs))
	for _, raw := range req.TemplateIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid template ID"))
			return
		}
		templateIDs = append(templateIDs, id)
	}

	copied, err := h.service.CopyTemplates(c.Request.Context(), facilityID, templateIDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, copied)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(copied))
}

func (h *Handler) SelectableDepartments(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	options, err := h.service.SelectableDepartments(c.Request.Context(), facilityID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(options))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.service.CreateCategory(c.Request.Context(), category); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(category))
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(categories))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
