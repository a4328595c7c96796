package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/realtime"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AgentListOrders returns the orders assigned to the calling agent,
// active window first
func AgentListOrders(c *gin.Context) {
	utils.LogInfo("AgentListOrders called")
	agent, ok := currentAgent(c)
	if !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	query := config.DB.Model(&models.Order{}).Where("delivery_agent_id = ?", agent.ID)
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(models.OrderStatus(status)) {
			utils.BadRequest(c, "Invalid status filter", nil)
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("Address").Preload("OrderItems").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for agent ID: %d: %v", agent.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": orders}, total, page, limit)
}

// agentOwnsOrder rejects acting on an order assigned to someone else or
// to nobody. Drives the 403 for unassigned agents.
func agentOwnsOrder(agentID uint) func(order *models.Order) *transitionError {
	return func(order *models.Order) *transitionError {
		if order.DeliveryAgentID == nil || *order.DeliveryAgentID != agentID {
			return authorizationError("Order is not assigned to you")
		}
		return nil
	}
}

// AcceptOrder moves a packed order out for delivery. Only the assigned
// agent may accept.
func AcceptOrder(c *gin.Context) {
	utils.LogInfo("AcceptOrder called")
	agent, ok := currentAgent(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	order, terr := applyTransition(uint(orderID), transition{
		to:        models.OrderStatusOutForDelivery,
		actorRole: models.ActorDeliveryAgent,
		actorID:   agent.ID,
		note:      "Accepted by delivery agent",
		guard:     agentOwnsOrder(agent.ID),
		stamp: func(order *models.Order, now time.Time) {
			order.DeliveryAcceptedAt = &now
		},
	})
	if terr != nil {
		utils.Error(c, terr.status, terr.message, nil)
		return
	}

	utils.LogInfo("Order %d accepted by agent ID: %d", order.ID, agent.ID)
	utils.Success(c, "Order accepted successfully", gin.H{
		"order_id":             order.ID,
		"status":               order.Status,
		"delivery_accepted_at": order.DeliveryAcceptedAt,
	})
}

// StartDelivery stamps the moment the agent actually leaves with the
// order. The status is already out_for_delivery from acceptance, so this
// records a timestamp without a status transition or history row.
func StartDelivery(c *gin.Context) {
	utils.LogInfo("StartDelivery called")
	agent, ok := currentAgent(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.LockForUpdate(tx).First(&order, orderID).Error; err != nil {
			return gorm.ErrRecordNotFound
		}
		if terr := agentOwnsOrder(agent.ID)(&order); terr != nil {
			return terr
		}
		if order.Status != models.OrderStatusOutForDelivery {
			return validationError("Order must be out for delivery before starting")
		}
		now := time.Now()
		order.DeliveryStartedAt = &now
		return tx.Save(&order).Error
	})
	if txErr != nil {
		var terr *transitionError
		if errors.As(txErr, &terr) {
			utils.Error(c, terr.status, terr.message, nil)
			return
		}
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to start delivery for order %d: %v", orderID, txErr)
		utils.InternalServerError(c, "Failed to start delivery", nil)
		return
	}

	publishOrderEvent(realtime.EventDeliveryStarted, &order)

	utils.Success(c, "Delivery started", gin.H{
		"order_id":            order.ID,
		"delivery_started_at": order.DeliveryStartedAt,
	})
}

// CompleteDelivery marks the order delivered
func CompleteDelivery(c *gin.Context) {
	utils.LogInfo("CompleteDelivery called")
	agent, ok := currentAgent(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	order, terr := applyTransition(uint(orderID), transition{
		to:        models.OrderStatusDelivered,
		actorRole: models.ActorDeliveryAgent,
		actorID:   agent.ID,
		note:      "Delivered by delivery agent",
		guard:     agentOwnsOrder(agent.ID),
		stamp: func(order *models.Order, now time.Time) {
			order.DeliveredAt = &now
		},
	})
	if terr != nil {
		utils.Error(c, terr.status, terr.message, nil)
		return
	}

	utils.LogInfo("Order %d delivered by agent ID: %d", order.ID, agent.ID)
	utils.Success(c, "Order marked as delivered", gin.H{
		"order_id":     order.ID,
		"status":       order.Status,
		"delivered_at": order.DeliveredAt,
	})
}
