package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListOrders returns the user's orders, newest first
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count orders", nil)
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("OrderItems").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": orders}, total, page, limit)
}

// GetOrderDetail returns one order with its items and status timeline
func GetOrderDetail(c *gin.Context) {
	utils.LogInfo("GetOrderDetail called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").Preload("Address").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	var timeline []models.OrderStatusHistory
	if err := config.DB.Where("order_id = ?", order.ID).Order("id").Find(&timeline).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch order timeline", nil)
		return
	}

	utils.Success(c, "Order retrieved successfully", gin.H{
		"order":    order,
		"timeline": timeline,
	})
}

// CancelOrder cancels the user's own order. Customers may cancel only
// while the order is pending, confirmed, or processing; after that only
// admin can.
func CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Reason is required", nil)
		return
	}

	order, terr := applyTransition(uint(orderID), transition{
		to:        models.OrderStatusCancelled,
		actorRole: models.ActorCustomer,
		actorID:   user.ID,
		note:      req.Reason,
		guard: func(order *models.Order) *transitionError {
			if order.UserID != user.ID {
				return notFoundError("Order not found")
			}
			if order.Status.IsTerminal() {
				return validationError("Order is already " + string(order.Status))
			}
			if !models.CustomerCanCancelFrom(order.Status) {
				return validationError("Order cannot be cancelled at this stage")
			}
			return nil
		},
		stamp: func(order *models.Order, _ time.Time) {
			order.CancelReason = req.Reason
		},
		after: reverseOrderLedgers,
	})
	if terr != nil {
		utils.Error(c, terr.status, terr.message, nil)
		return
	}

	utils.LogInfo("Order %d cancelled by user ID: %d", order.ID, user.ID)
	utils.Success(c, "Order cancelled successfully", gin.H{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// reverseOrderLedgers unwinds a cancelled order's ledger effects inside
// the cancellation transaction. Wallet money comes back as a refund
// credit, redeemed points return to the balance, and points earned on
// the order are clawed back up to whatever the user still holds. Coupon
// usage is not returned; a consumed code stays consumed.
func reverseOrderLedgers(tx *gorm.DB, order *models.Order) error {
	if order.WalletApplied > 0 {
		description := fmt.Sprintf("Refund for cancelled order #%s", order.OrderNumber)
		if _, err := utils.CreditWallet(tx, order.UserID, order.WalletApplied, description, models.WalletRefRefund, &order.ID); err != nil {
			return err
		}
	}

	if order.PointsUsed > 0 {
		description := fmt.Sprintf("Points returned for cancelled order #%s", order.OrderNumber)
		if _, err := utils.ReturnPoints(tx, order.UserID, order.PointsUsed, description, &order.ID); err != nil {
			return err
		}
	}

	var earned int
	if err := tx.Model(&models.LoyaltyTransaction{}).
		Where("order_id = ? AND type = ?", order.ID, models.LoyaltyTxnEarned).
		Select("COALESCE(SUM(points), 0)").Scan(&earned).Error; err != nil {
		return err
	}
	if earned > 0 {
		description := fmt.Sprintf("Points revoked for cancelled order #%s", order.OrderNumber)
		if _, err := utils.RevokePoints(tx, order.UserID, earned, description, &order.ID); err != nil {
			return err
		}
	}
	return nil
}
