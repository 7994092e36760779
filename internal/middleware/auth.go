package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/access"
	"github.com/orgconsole/admin-api/internal/handler"
	"github.com/orgconsole/admin-api/internal/model"
)

const (
	ContextUserID         = "userID"
	ContextUserEmail      = "userEmail"
	ContextOrganizationID = "organizationID"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type capabilityResolver interface {
	EffectiveCapabilities(ctx context.Context, userID, moduleID uuid.UUID) (model.Capabilities, error)
	ModuleAvailability(ctx context.Context, workspaceID, moduleID uuid.UUID) (model.ModuleState, error)
	GetModuleByKey(ctx context.Context, key string) (*model.Module, error)
}

type AuthMiddleware struct {
	authSvc   tokenValidator
	moduleSvc capabilityResolver
}

func NewAuthMiddleware(authSvc tokenValidator, moduleSvc capabilityResolver) *AuthMiddleware {
	return &AuthMiddleware{
		authSvc:   authSvc,
		moduleSvc: moduleSvc,
	}
}

// Authenticate verifies the JWT token and sets user info in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextOrganizationID, claims.OrganizationID.String())
		c.Next()
	}
}

// RequireCapability checks that the caller holds the capability on the
// module and that the module is available in the request's workspace. The
// workspace comes from the X-Workspace-ID header; without one only the
// capability is checked.
func (m *AuthMiddleware) RequireCapability(moduleKey, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString(ContextUserID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
			c.Abort()
			return
		}

		module, err := m.moduleSvc.GetModuleByKey(c.Request.Context(), moduleKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to resolve module"))
			c.Abort()
			return
		}

		if workspaceHeader := c.GetHeader("X-Workspace-ID"); workspaceHeader != "" {
			workspaceID, err := uuid.Parse(workspaceHeader)
			if err != nil {
				c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid workspace ID"))
				c.Abort()
				return
			}
			state, err := m.moduleSvc.ModuleAvailability(c.Request.Context(), workspaceID, module.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check module availability"))
				c.Abort()
				return
			}
			if state != model.ModuleStateActive {
				c.JSON(http.StatusForbidden, handler.NewErrorResponse("module is not available in this workspace"))
				c.Abort()
				return
			}
		}

		caps, err := m.moduleSvc.EffectiveCapabilities(c.Request.Context(), userID, module.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check permission"))
			c.Abort()
			return
		}
		if !access.HasCapability(caps, capability) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}
