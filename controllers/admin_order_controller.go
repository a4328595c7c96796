package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/realtime"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListOrders returns all orders with optional status and search
// filters
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	query := config.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(models.OrderStatus(status)) {
			utils.BadRequest(c, "Invalid status filter", nil)
			return
		}
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("User").Preload("OrderItems").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": orders}, total, page, limit)
}

// AdminGetOrder returns one order with items, customer, and timeline
func AdminGetOrder(c *gin.Context) {
	utils.LogInfo("AdminGetOrder called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("User").Preload("Address").Preload("OrderItems").
		First(&order, orderID).Error; err != nil {
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

// AdminUpdateOrderStatus moves an order along any legal transition.
// Admin cancellation reverses the order's ledger effects like a customer
// cancellation does.
func AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Status is required", nil)
		return
	}

	to := models.OrderStatus(req.Status)
	if !models.ValidOrderStatus(to) {
		utils.BadRequest(c, "Unknown order status", nil)
		return
	}

	t := transition{
		to:        to,
		actorRole: models.ActorAdmin,
		actorID:   admin.ID,
		note:      req.Note,
	}
	if to == models.OrderStatusCancelled {
		t.stamp = func(order *models.Order, _ time.Time) {
			order.CancelReason = req.Note
		}
		t.after = reverseOrderLedgers
	}
	if to == models.OrderStatusDelivered {
		t.stamp = func(order *models.Order, now time.Time) {
			order.DeliveredAt = &now
		}
	}

	order, terr := applyTransition(uint(orderID), t)
	if terr != nil {
		utils.Error(c, terr.status, terr.message, nil)
		return
	}

	utils.LogInfo("Order %d moved to %s by admin ID: %d", order.ID, order.Status, admin.ID)
	utils.Success(c, "Order status updated successfully", gin.H{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// paymentTransitions mirrors the order transition table for the payment
// axis: verification can settle to paid or failed, a paid order can be
// refunded, a failed payment can be retried. refunded is terminal.
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending:             {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusPendingVerification: {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusPaid:                {models.PaymentStatusRefunded},
	models.PaymentStatusFailed:              {models.PaymentStatusPaid},
}

func canMovePayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AdminUpdatePaymentStatus mutates the payment axis independently of
// order status. Only admin touches it; delivery progress never implies
// payment.
func AdminUpdatePaymentStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdatePaymentStatus called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Payment status is required", nil)
		return
	}

	var order models.Order
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.LockForUpdate(tx).First(&order, orderID).Error; err != nil {
			return err
		}
		if !canMovePayment(order.PaymentStatus, req.PaymentStatus) {
			return validationError("Cannot move payment from " + order.PaymentStatus + " to " + req.PaymentStatus)
		}
		order.PaymentStatus = req.PaymentStatus
		return tx.Save(&order).Error
	})
	if err != nil {
		var terr *transitionError
		if errors.As(err, &terr) {
			utils.Error(c, terr.status, terr.message, nil)
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to update payment status for order %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to update payment status", nil)
		return
	}

	publishOrderEvent(realtime.EventPaymentUpdated, &order)

	utils.LogInfo("Payment status of order %d set to %s by admin ID: %d", order.ID, order.PaymentStatus, admin.ID)
	utils.Success(c, "Payment status updated successfully", gin.H{
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})
}

// AdminAssignAgent attaches a delivery agent to an order. The agent must
// accept before the order moves to out_for_delivery.
func AdminAssignAgent(c *gin.Context) {
	utils.LogInfo("AdminAssignAgent called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		AgentID uint `json:"agent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Agent ID is required", nil)
		return
	}

	var agent models.DeliveryAgent
	if err := config.DB.First(&agent, req.AgentID).Error; err != nil {
		utils.NotFound(c, "Delivery agent not found")
		return
	}
	if !agent.IsActive {
		utils.BadRequest(c, "Delivery agent is not active", nil)
		return
	}

	var order models.Order
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.LockForUpdate(tx).First(&order, orderID).Error; err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return validationError("Order is already " + string(order.Status))
		}
		order.DeliveryAgentID = &agent.ID
		return tx.Save(&order).Error
	})
	if err != nil {
		var terr *transitionError
		if errors.As(err, &terr) {
			utils.Error(c, terr.status, terr.message, nil)
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to assign agent to order %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to assign delivery agent", nil)
		return
	}

	publishOrderEvent(realtime.EventAgentAssigned, &order)

	utils.LogInfo("Agent %d assigned to order %d by admin ID: %d", agent.ID, order.ID, admin.ID)
	utils.Success(c, "Delivery agent assigned successfully", gin.H{
		"order_id": order.ID,
		"agent_id": agent.ID,
	})
}
