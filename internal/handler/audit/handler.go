package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/handler"
	auditService "github.com/orgconsole/admin-api/internal/service/audit"
)

type Handler struct {
	service *auditService.Service
}

func NewHandler(service *auditService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", h.ListAuditLogs)
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	filters := map[string]interface{}{}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
			return
		}
		filters["user_id"] = userID
	}
	if raw := c.Query("organization_id"); raw != "" {
		orgID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
			return
		}
		filters["organization_id"] = orgID
	}
	if raw := c.Query("entity_type"); raw != "" {
		filters["entity_type"] = raw
	}
	if raw := c.Query("action"); raw != "" {
		filters["action"] = raw
	}

	logs, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}
