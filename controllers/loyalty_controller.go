package controllers

import (
	"fmt"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetLoyaltyAccount returns the user's point balance, tier, and lifetime
// counters
func GetLoyaltyAccount(c *gin.Context) {
	utils.LogInfo("GetLoyaltyAccount called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	account, err := utils.GetOrCreateLoyaltyAccount(user.ID)
	if err != nil {
		utils.LogError("Failed to load loyalty account for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load loyalty account", nil)
		return
	}

	settings, err := config.GetStoreSettings(config.DB)
	if err != nil {
		utils.InternalServerError(c, "Failed to load store settings", nil)
		return
	}

	utils.Success(c, "Loyalty account retrieved successfully", gin.H{
		"total_points":    account.TotalPoints,
		"lifetime_earned": account.LifetimeEarned,
		"lifetime_spent":  account.LifetimeSpent,
		"tier":            account.Tier,
		"point_value":     settings.PointValue,
		"conversion_rate": settings.ConversionRate,
	})
}

// GetLoyaltyTransactions returns the user's point ledger, newest first
func GetLoyaltyTransactions(c *gin.Context) {
	utils.LogInfo("GetLoyaltyTransactions called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	var total int64
	if err := config.DB.Model(&models.LoyaltyTransaction{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count transactions", nil)
		return
	}

	var transactions []models.LoyaltyTransaction
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch loyalty transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch loyalty transactions", nil)
		return
	}

	utils.SuccessWithPagination(c, "Loyalty transactions retrieved successfully", gin.H{"transactions": transactions}, total, page, limit)
}

// AdminAdjustPoints grants or removes loyalty points with an audited
// adjustment entry
func AdminAdjustPoints(c *gin.Context) {
	utils.LogInfo("AdminAdjustPoints called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Points int    `json:"points" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Points == 0 {
		utils.BadRequest(c, "user_id, a non-zero points delta, and reason are required", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	description := fmt.Sprintf("Admin adjustment: %s", req.Reason)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if req.Points > 0 {
			_, err := utils.EarnPoints(tx, req.UserID, req.Points, models.LoyaltyTxnAdminAdjustment, description, nil)
			return err
		}
		_, err := utils.RedeemPoints(tx, req.UserID, -req.Points, models.LoyaltyTxnAdminAdjustment, description, nil)
		return err
	})
	if err != nil {
		if err == utils.ErrInsufficientPoints {
			utils.BadRequest(c, "Insufficient loyalty points", nil)
			return
		}
		utils.LogError("Points adjustment failed for user ID: %d: %v", req.UserID, err)
		utils.InternalServerError(c, "Failed to adjust points", nil)
		return
	}

	utils.LogInfo("Admin %d adjusted points of user %d by %d", admin.ID, req.UserID, req.Points)
	utils.Success(c, "Points adjusted successfully", gin.H{
		"user_id": req.UserID,
		"points":  req.Points,
	})
}
