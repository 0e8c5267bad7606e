// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/imob-backoffice/internal/middleware"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// actor is the authenticated user; the gate always sets it before these
// handlers run.
func actor(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return user, ok
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	q := listQuery(c, "role", "branchId", "active")
	result, err := h.userService.List(c.Request.Context(), user, q)
	respondList(c, result, err)
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.userService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, found)
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	var req services.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.userService.Create(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.userService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, updated)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	deleted(c)
}
