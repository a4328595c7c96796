package controllers

import (
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated customer from the gin context.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}

// currentAdmin pulls the authenticated admin from the gin context.
func currentAdmin(c *gin.Context) (models.Admin, bool) {
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Admin not found in context")
		return models.Admin{}, false
	}
	admin, ok := adminVal.(models.Admin)
	if !ok {
		utils.LogError("Invalid admin type in context")
		utils.InternalServerError(c, "Invalid admin type", nil)
		return models.Admin{}, false
	}
	return admin, true
}

// currentAgent pulls the authenticated delivery agent from the gin context.
func currentAgent(c *gin.Context) (models.DeliveryAgent, bool) {
	agentVal, exists := c.Get("agent")
	if !exists {
		utils.LogError("Delivery agent not found in context")
		utils.Unauthorized(c, "Delivery agent not found in context")
		return models.DeliveryAgent{}, false
	}
	agent, ok := agentVal.(models.DeliveryAgent)
	if !ok {
		utils.LogError("Invalid delivery agent type in context")
		utils.InternalServerError(c, "Invalid delivery agent type", nil)
		return models.DeliveryAgent{}, false
	}
	return agent, true
}
