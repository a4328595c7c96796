package controllers

import (
	"fmt"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetWalletBalance returns the user's wallet, creating it on first use
func GetWalletBalance(c *gin.Context) {
	utils.LogInfo("GetWalletBalance called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	wallet, err := utils.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	utils.Success(c, "Wallet retrieved successfully", gin.H{
		"balance": wallet.Balance,
	})
}

// GetWalletTransactions returns the user's wallet ledger, newest first
func GetWalletTransactions(c *gin.Context) {
	utils.LogInfo("GetWalletTransactions called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	var total int64
	if err := config.DB.Model(&models.WalletTransaction{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count transactions", nil)
		return
	}

	var transactions []models.WalletTransaction
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch wallet transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wallet transactions", nil)
		return
	}

	utils.SuccessWithPagination(c, "Wallet transactions retrieved successfully", gin.H{"transactions": transactions}, total, page, limit)
}

// ConvertPoints converts loyalty points into wallet money at the
// configured rate. Both halves commit together or not at all.
func ConvertPoints(c *gin.Context) {
	utils.LogInfo("ConvertPoints called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Points int `json:"points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Points <= 0 {
		utils.BadRequest(c, "Points must be a positive number", nil)
		return
	}

	settings, err := config.GetStoreSettings(config.DB)
	if err != nil {
		utils.InternalServerError(c, "Failed to load store settings", nil)
		return
	}
	if req.Points < settings.MinPointsRedemption {
		utils.BadRequest(c, fmt.Sprintf("Minimum %d points required for conversion", settings.MinPointsRedemption), nil)
		return
	}

	amount, err := utils.ConvertPointsToWallet(config.DB, user.ID, req.Points, settings.ConversionRate)
	if err != nil {
		if err == utils.ErrInsufficientPoints {
			utils.BadRequest(c, "Insufficient loyalty points", nil)
			return
		}
		utils.LogError("Points conversion failed for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to convert points", nil)
		return
	}

	utils.LogInfo("User %d converted %d points to %.2f wallet credit", user.ID, req.Points, amount)
	utils.Success(c, "Points converted successfully", gin.H{
		"points_converted": req.Points,
		"amount_credited":  amount,
	})
}

// AdminAdjustWallet credits or debits a user's wallet with an audited
// adjustment entry
func AdminAdjustWallet(c *gin.Context) {
	utils.LogInfo("AdminAdjustWallet called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req struct {
		UserID uint    `json:"user_id" binding:"required"`
		Type   string  `json:"type" binding:"required"`
		Amount float64 `json:"amount" binding:"required"`
		Reason string  `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "user_id, type, amount, and reason are required", nil)
		return
	}
	if req.Amount <= 0 {
		utils.BadRequest(c, "Amount must be positive", nil)
		return
	}
	if req.Type != models.TransactionTypeCredit && req.Type != models.TransactionTypeDebit {
		utils.BadRequest(c, "Type must be credit or debit", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		description := fmt.Sprintf("Admin adjustment: %s", req.Reason)
		if req.Type == models.TransactionTypeCredit {
			_, err := utils.CreditWallet(tx, req.UserID, req.Amount, description, models.WalletRefAdminAdjustment, nil)
			return err
		}
		_, err := utils.DebitWallet(tx, req.UserID, req.Amount, description, models.WalletRefAdminAdjustment, nil)
		return err
	})
	if err != nil {
		if err == utils.ErrInsufficientBalance {
			utils.BadRequest(c, "Insufficient wallet balance", nil)
			return
		}
		utils.LogError("Wallet adjustment failed for user ID: %d: %v", req.UserID, err)
		utils.InternalServerError(c, "Failed to adjust wallet", nil)
		return
	}

	utils.LogInfo("Admin %d adjusted wallet of user %d: %s %.2f", admin.ID, req.UserID, req.Type, req.Amount)
	utils.Success(c, "Wallet adjusted successfully", gin.H{
		"user_id": req.UserID,
		"type":    req.Type,
		"amount":  req.Amount,
	})
}
