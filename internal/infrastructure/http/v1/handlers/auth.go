// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warestock/internal/core/apperror"
	"warestock/internal/core/security"
	"warestock/internal/domain"
	"warestock/internal/domain/auth"
	"warestock/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(ctx, req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: dto.FromToken(token),
		User:  dto.FromUser(user),
	})
}

// Register handles POST /users.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(ctx, req.ToCreateInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromUser(user))
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := security.GetActor(ctx)
	if !ok {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.service.GetByID(ctx, actor.ID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(user))
}

// GetByID handles GET /users/:id.
func (h *AuthHandler) GetByID(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(user))
}

// List handles GET /users.
func (h *AuthHandler) List(c *gin.Context) {
	var q dto.UserListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q.PageQuery)

	users, total, err := h.service.List(c.Request.Context(), auth.UserFilter{
		Search:   q.Search,
		IsActive: q.IsActive,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = dto.FromUser(&users[i])
	}
	h.OK(c, domain.NewListResult(out, total, page))
}

// SetActive handles PATCH /users/:id/active.
func (h *AuthHandler) SetActive(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), userID, *req.IsActive); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ChangePassword handles POST /users/me/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "password updated")
}
