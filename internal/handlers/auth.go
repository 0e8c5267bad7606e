// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/i18n"
	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type AuthHandler struct {
	authService   *services.AuthService
	cookieName    string
	secureCookies bool
}

func NewAuthHandler(authService *services.AuthService, cookieName string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email)
	if err != nil {
		// Unknown and inactive accounts get the same answer.
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyAuthUserNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, result.Token, result.ExpiresIn, "/", "", h.secureCookies, true)

	utils.SuccessResponse(c, result)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookies, true)

	utils.MessageOK(c, i18n.KeyAuthLogoutSuccess)
}

// GET /api/auth/verify and GET /api/auth/me
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":          services.NewSessionUser(user),
		"authenticated": true,
	})
}
