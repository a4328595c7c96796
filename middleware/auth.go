package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// parseToken extracts and validates the bearer token, returning its claims.
// Token issuing lives in the identity service; this side only verifies.
func parseToken(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.LogError("Missing Authorization header")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
		c.Abort()
		return nil, false
	}

	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		utils.LogError("Invalid token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.LogError("Invalid token claims")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return nil, false
	}
	return claims, true
}

func claimID(claims jwt.MapClaims, key string) (uint, bool) {
	raw, ok := claims[key].(float64)
	if !ok {
		return 0, false
	}
	return uint(raw), true
}

// AuthMiddleware resolves a customer from the bearer token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		userID, ok := claimID(claims, "user_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			utils.LogError("User not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if user.IsBlocked {
			utils.LogError("Blocked user attempted access: %d", userID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// AdminMiddleware resolves a back-office admin from the bearer token
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		adminID, ok := claimID(claims, "admin_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := config.DB.First(&admin, adminID).Error; err != nil {
			utils.LogError("Admin not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not found"})
			c.Abort()
			return
		}

		if !admin.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin account is inactive"})
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Next()
	}
}

// DeliveryAgentMiddleware resolves a delivery agent from the bearer token
func DeliveryAgentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		agentID, ok := claimID(claims, "agent_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Delivery agent access required"})
			c.Abort()
			return
		}

		var agent models.DeliveryAgent
		if err := config.DB.First(&agent, agentID).Error; err != nil {
			utils.LogError("Delivery agent not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Delivery agent not found"})
			c.Abort()
			return
		}

		if !agent.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Delivery agent account is inactive"})
			c.Abort()
			return
		}

		c.Set("agent", agent)
		c.Next()
	}
}
