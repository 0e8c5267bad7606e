// internal/middleware/auth.go
package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/imob-backoffice/internal/i18n"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

// Authenticator composes session verification with the authorization gate
// for every protected route.
type Authenticator struct {
	authz      *services.AuthorizationService
	cookieName string
}

func NewAuthenticator(authz *services.AuthorizationService, cookieName string) *Authenticator {
	return &Authenticator{
		authz:      authz,
		cookieName: cookieName,
	}
}

// Session decodes the request's session token. It returns nil on any failure
// and has no side effects, so calling it twice gives the same answer.
func (a *Authenticator) Session(c *gin.Context) *utils.SessionClaims {
	token := utils.ExtractSessionToken(c.Request, a.cookieName)
	if token == "" {
		return nil
	}
	claims, err := utils.ValidateSessionToken(token)
	if err != nil {
		return nil
	}
	return claims
}

func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return a.gate(nil)
}

func (a *Authenticator) RequirePermission(resource models.Resource, action models.Action) gin.HandlerFunc {
	return a.gate(services.Need(resource, action))
}

// AdminRequired must run after one of the gates above.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.Role.IsAdmin() {
			utils.ForbiddenResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthAdminOnly))
			return
		}
		c.Next()
	}
}

func (a *Authenticator) gate(req *services.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := a.Session(c)
		user, err := a.authz.Authorize(c.Request.Context(), claims, req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthenticated):
				utils.UnauthorizedResponse(c, "")
			case errors.Is(err, services.ErrForbidden):
				utils.ForbiddenResponse(c, "")
			default:
				logrus.WithError(err).Error("Authorization failed")
				utils.InternalErrorResponse(c)
			}
			return
		}

		// Set user info in context
		c.Set(utils.ContextKeyClaims, claims)
		c.Set(utils.ContextKeyUser, user)
		c.Set(utils.ContextKeyScope, services.ScopeFor(user))
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	if v, exists := c.Get(utils.ContextKeyUser); exists {
		if user, ok := v.(*models.User); ok && user != nil {
			return user, true
		}
	}
	return nil, false
}

// CurrentScope falls back to the empty scope, which matches nothing.
func CurrentScope(c *gin.Context) services.Scope {
	if v, exists := c.Get(utils.ContextKeyScope); exists {
		if scope, ok := v.(services.Scope); ok {
			return scope
		}
	}
	return services.Scope{}
}
