package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/services"
)

// RoleHandler handles role assignment operations
type RoleHandler struct {
	roles services.RoleAssignmentService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roles services.RoleAssignmentService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type assignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AssignRole sets the role of a user, replacing any previous role.
func (h *RoleHandler) AssignRole(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roles.AssignRole(caller, userID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
}

// GetRole returns the role of a user. Users with no assigned role
// report as students.
func (h *RoleHandler) GetRole(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	role, err := h.roles.GetRole(caller, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
}
