package user

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
	userService "github.com/orgconsole/admin-api/internal/service/user"
	"github.com/orgconsole/admin-api/pkg/event"
)

const maxBulkUploadSize = 10 << 20 // 10 MB

type Handler struct {
	service userService.UserServicer
}

func NewHandler(service userService.UserServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	users := r.Group("/users")
	{
		users.POST("", eventTracker.TrackEvent("user", "create"), h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", eventTracker.TrackEvent("user", "update"), h.UpdateUser)
		users.DELETE("/:id", eventTracker.TrackEvent("user", "delete"), h.DeleteUser)
		users.POST("/bulk", eventTracker.TrackEvent("user", "bulk_provision"), h.BulkUpload)
		users.GET("/bulk/template", h.BulkTemplate)
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	user := &model.User{
		OrganizationID: orgID,
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := h.service.CreateUser(c.Request.Context(), user); err != nil {
		handler.RespondError(c, err)
		return
	}

	user.Password = ""
	event.SetEventData(c, user)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := h.service.UpdateUser(c.Request.Context(), user); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, user)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListUsers(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("organization_id query parameter is required"))
		return
	}

	filters := &model.UserFilters{
		OrganizationID: orgID,
		Status:         c.Query("status"),
		SearchTerm:     c.Query("search"),
	}
	if raw := c.Query("workspace_id"); raw != "" {
		workspaceID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
			return
		}
		filters.WorkspaceID = &workspaceID
	}
	if raw := c.Query("facility_id"); raw != "" {
		facilityID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
			return
		}
		filters.FacilityID = &facilityID
	}
	if raw := c.Query("department_id"); raw != "" {
		departmentID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
			return
		}
		filters.DepartmentID = &departmentID
	}

	users, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

// BulkUpload accepts a multipart spreadsheet and provisions one user per
// row. Scope fields arrive as form values alongside the file.
func (h *Handler) BulkUpload(c *gin.Context) {
	orgID, err := uuid.Parse(c.PostForm("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("organization_id form field is required"))
		return
	}

	opts := userService.BulkProvisionOptions{OrganizationID: orgID}
	if raw := c.PostForm("workspace_id"); raw != "" {
		workspaceID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
			return
		}
		opts.WorkspaceID = &workspaceID
	}
	if raw := c.PostForm("facility_id"); raw != "" {
		facilityID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
			return
		}
		opts.FacilityID = &facilityID
	}
	if raw := c.PostForm("default_role"); raw != "" {
		opts.DefaultRole = model.RoleType(raw)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file form field is required"))
		return
	}
	if fileHeader.Size > maxBulkUploadSize {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file exceeds maximum upload size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to open uploaded file"))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read uploaded file"))
		return
	}

	result, err := h.service.BulkProvision(c.Request.Context(), opts, fileBytes)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	event.SetEventData(c, result)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) BulkTemplate(c *gin.Context) {
	template, err := userService.GenerateBulkTemplate()
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="user_upload_template.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", template)
}
