package controllers

import (
	"net/http"

	"aquacare-backend/permissions"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestRole pulls the caller's role out of the JWT claims placed in
// the gin context. The role is passed explicitly into every permission
// check; nothing reads it from global state.
func requestRole(c *gin.Context) (permissions.Role, bool) {
	raw, exists := c.Get("role")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Role not found in context")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid role claim")
		return "", false
	}
	role, ok := permissions.ParseRole(s)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid role claim")
		return "", false
	}
	return role, true
}

// requestUserID pulls the caller's user id out of the context.
func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID claim")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID claim")
		return uuid.Nil, false
	}
	return id, true
}

// forbidden renders the single consistent denial message.
func forbidden(c *gin.Context) {
	utils.RespondWithError(c, http.StatusForbidden, "You do not have permission to perform this action")
}

// pathUUID parses the :id path parameter.
func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
