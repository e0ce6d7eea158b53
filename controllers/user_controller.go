package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/middleware"
	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/services"
)

// UserController exposes the staff roster and the approval workflow.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// List handles GET /api/users with optional ?status= filtering.
func (uc *UserController) List(c *gin.Context) {
	page, perPage, skip := pagination(c)
	status := c.Query("status")

	users, total, err := uc.users.List(c.Request.Context(), status, perPage, skip)
	if err != nil {
		zap.L().Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"meta":  paginationMeta(page, perPage, total),
	})
}

// Pending handles GET /api/users/pending, the approval queue.
func (uc *UserController) Pending(c *gin.Context) {
	page, perPage, skip := pagination(c)

	users, total, err := uc.users.List(c.Request.Context(), models.StatusPending, perPage, skip)
	if err != nil {
		zap.L().Error("failed to list pending users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"meta":  paginationMeta(page, perPage, total),
	})
}

// Get handles GET /api/users/:id
func (uc *UserController) Get(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		zap.L().Error("failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Approve handles PATCH /api/users/:id/approve
func (uc *UserController) Approve(c *gin.Context) {
	uc.decide(c, true)
}

// Reject handles PATCH /api/users/:id/reject
func (uc *UserController) Reject(c *gin.Context) {
	uc.decide(c, false)
}

func (uc *UserController) decide(c *gin.Context, approve bool) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	actor := c.GetString(middleware.CtxUsername)

	user, err := uc.users.Decide(c.Request.Context(), id, approve, actor)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"error": "User approval already decided"})
		default:
			zap.L().Error("failed to decide user approval", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated", "user": user})
}

// Delete handles DELETE /api/users/:id, terminating the user's sessions.
func (uc *UserController) Delete(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	if id.Hex() == c.GetString(middleware.CtxUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	actor := c.GetString(middleware.CtxUsername)
	if err := uc.users.Delete(c.Request.Context(), id, actor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		zap.L().Error("failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
