package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest represents the admin request body for a new coupon
type CreateCouponRequest struct {
	Code          string  `json:"code" binding:"required"`
	Type          string  `json:"type" binding:"required"`
	Value         float64 `json:"value" binding:"required"`
	MinOrderValue float64 `json:"min_order_value"`
	MaxDiscount   float64 `json:"max_discount"`
	ValidFrom     string  `json:"valid_from"`
	ValidUntil    string  `json:"valid_until" binding:"required"`
	UsageLimit    int     `json:"usage_limit"`
	PerUserLimit  int     `json:"per_user_limit"`
	Active        *bool   `json:"active"`
}

// CreateCoupon creates a new coupon (admin)
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		utils.BadRequest(c, "Coupon code is required", nil)
		return
	}
	if req.Type != models.CouponTypePercent && req.Type != models.CouponTypeFlat {
		utils.BadRequest(c, "Type must be 'percent' or 'flat'", nil)
		return
	}
	if req.Value <= 0 {
		utils.BadRequest(c, "Value must be positive", nil)
		return
	}
	if req.Type == models.CouponTypePercent && req.Value > 100 {
		utils.BadRequest(c, "Percent value cannot exceed 100", nil)
		return
	}

	validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
	if err != nil {
		utils.BadRequest(c, "valid_until must be YYYY-MM-DD", nil)
		return
	}
	var validFrom time.Time
	if req.ValidFrom != "" {
		validFrom, err = time.Parse("2006-01-02", req.ValidFrom)
		if err != nil {
			utils.BadRequest(c, "valid_from must be YYYY-MM-DD", nil)
			return
		}
	}

	// case-insensitive uniqueness
	var existing models.Coupon
	if err := config.DB.Where("UPPER(code) = ?", code).First(&existing).Error; err == nil {
		utils.Conflict(c, "Coupon code already exists", nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	coupon := models.Coupon{
		Code:          code,
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil.Add(24*time.Hour - time.Second),
		UsageLimit:    req.UsageLimit,
		PerUserLimit:  req.PerUserLimit,
		Active:        active,
	}
	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon %s: %v", code, err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}
	utils.LogInfo("Created coupon %s", code)
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// UpdateCoupon updates mutable fields of a coupon (admin)
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req struct {
		Value         *float64 `json:"value"`
		MinOrderValue *float64 `json:"min_order_value"`
		MaxDiscount   *float64 `json:"max_discount"`
		ValidUntil    *string  `json:"valid_until"`
		UsageLimit    *int     `json:"usage_limit"`
		PerUserLimit  *int     `json:"per_user_limit"`
		Active        *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.Value != nil {
		if *req.Value <= 0 || (coupon.Type == models.CouponTypePercent && *req.Value > 100) {
			utils.BadRequest(c, "Invalid coupon value", nil)
			return
		}
		coupon.Value = *req.Value
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = *req.MaxDiscount
	}
	if req.ValidUntil != nil {
		validUntil, err := time.Parse("2006-01-02", *req.ValidUntil)
		if err != nil {
			utils.BadRequest(c, "valid_until must be YYYY-MM-DD", nil)
			return
		}
		coupon.ValidUntil = validUntil.Add(24*time.Hour - time.Second)
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit > 0 && *req.UsageLimit < coupon.UsedCount {
			utils.BadRequest(c, "Usage limit cannot be below the current used count", nil)
			return
		}
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.PerUserLimit != nil {
		coupon.PerUserLimit = *req.PerUserLimit
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := config.DB.Save(&coupon).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", couponID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}
	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}

// DeleteCoupon soft deletes a coupon (admin). Usage rows are kept for
// audit.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	result := config.DB.Delete(&models.Coupon{}, couponID)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Coupon not found")
		return
	}
	utils.Success(c, "Coupon deleted successfully", nil)
}

// ListCoupons lists coupons with usage counts (admin)
func ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	var total int64
	if err := config.DB.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count coupons", nil)
		return
	}

	var coupons []models.Coupon
	if err := config.DB.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&coupons).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	utils.SuccessWithPagination(c, "Coupons retrieved successfully", gin.H{"coupons": coupons}, total, page, limit)
}
