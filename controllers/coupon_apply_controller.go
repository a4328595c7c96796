package controllers

import (
	"strings"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplyCouponRequest represents the request body for applying a coupon
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// userCouponUsage counts committed redemptions of a coupon by a user.
func userCouponUsage(db *gorm.DB, couponID, userID uint) (int, error) {
	var count int64
	err := db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return int(count), err
}

// findCouponByCode looks a coupon up case-insensitively.
func findCouponByCode(db *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ApplyCoupon validates a coupon against the user's cart and marks it as
// the active coupon for checkout. The validation here is advisory; the
// limits are re-checked inside the order transaction at commit time.
func ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Attempting to apply coupon code: %s for user ID: %d", req.Code, user.ID)

	coupon, err := findCouponByCode(config.DB, req.Code)
	if err != nil {
		utils.LogError("Invalid coupon code: %s for user ID: %d", req.Code, user.ID)
		utils.NotFound(c, "Invalid coupon")
		return
	}

	_, subtotal, err := loadCart(user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch cart items", nil)
		return
	}
	if subtotal <= 0 {
		utils.BadRequest(c, "Cart is empty", nil)
		return
	}

	usage, err := userCouponUsage(config.DB, coupon.ID, user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to check coupon usage", nil)
		return
	}

	if rejection := utils.ValidateCoupon(coupon, subtotal, usage, time.Now()); rejection != utils.CouponRejectionNone {
		utils.LogError("Coupon %s rejected for user ID: %d: %s", coupon.Code, user.ID, rejection)
		utils.BadRequest(c, rejection.Message(), gin.H{"reason": rejection})
		return
	}

	// Replace any previously applied coupon.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserActiveCoupon{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserActiveCoupon{
			UserID:    user.ID,
			CouponID:  coupon.ID,
			Code:      coupon.Code,
			AppliedAt: time.Now(),
		}).Error
	})
	if err != nil {
		utils.LogError("Failed to save active coupon for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to apply coupon", nil)
		return
	}

	settings, err := config.GetStoreSettings(config.DB)
	if err != nil {
		utils.InternalServerError(c, "Failed to load store settings", nil)
		return
	}

	result := utils.PriceOrder(utils.PricingInput{
		Subtotal:              subtotal,
		DeliveryCharge:        settings.DeliveryCharge,
		FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
		Coupon:                coupon,
		UserCouponUsage:       usage,
		Now:                   time.Now(),
	})

	utils.LogInfo("Successfully applied coupon code: %s for user ID: %d, final total: %.2f", coupon.Code, user.ID, result.FinalTotal)
	utils.Success(c, "Coupon applied successfully", gin.H{"pricing": result})
}

// RemoveCoupon removes the user's active coupon
func RemoveCoupon(c *gin.Context) {
	utils.LogInfo("RemoveCoupon called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := config.DB.Where("user_id = ?", user.ID).Delete(&models.UserActiveCoupon{}).Error; err != nil {
		utils.LogError("Failed to remove active coupon for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to remove coupon", nil)
		return
	}

	_, subtotal, err := loadCart(user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch cart items", nil)
		return
	}
	settings, err := config.GetStoreSettings(config.DB)
	if err != nil {
		utils.InternalServerError(c, "Failed to load store settings", nil)
		return
	}

	result := utils.PriceOrder(utils.PricingInput{
		Subtotal:              subtotal,
		DeliveryCharge:        settings.DeliveryCharge,
		FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
	})

	utils.LogInfo("Successfully removed coupon for user ID: %d", user.ID)
	utils.Success(c, "Coupon removed successfully", gin.H{"pricing": result})
}
