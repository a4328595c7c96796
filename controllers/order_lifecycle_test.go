package controllers

import (
	"net/http"
	"testing"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/realtime"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status models.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber:   "ord-" + t.Name() + "-" + string(status),
		UserID:        userID,
		Subtotal:      300,
		FinalTotal:    340,
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPending,
		Status:        status,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func historyCount(t *testing.T, db *gorm.DB, orderID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func TestAcceptOrderRejectsUnassignedAgent(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "victim@test.local")

	assigned := models.DeliveryAgent{Email: "assigned@test.local", Name: "Assigned Agent", IsActive: true}
	require.NoError(t, db.Create(&assigned).Error)
	intruder := models.DeliveryAgent{Email: "intruder@test.local", Name: "Other Agent", IsActive: true}
	require.NoError(t, db.Create(&intruder).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusPacked)
	require.NoError(t, db.Model(&order).Update("delivery_agent_id", assigned.ID).Error)

	w := invoke(t, AcceptOrder, "agent", intruder, nil, order.ID)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Rejection must leave no trace: status unchanged, no history row.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusPacked, reloaded.Status)
	require.Nil(t, reloaded.DeliveryAcceptedAt)
	require.Zero(t, historyCount(t, db, order.ID))
}

func TestAssignedAgentDeliveryFlow(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "flow@test.local")

	agent := models.DeliveryAgent{Email: "flow-agent@test.local", Name: "Agent", IsActive: true}
	require.NoError(t, db.Create(&agent).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusPacked)
	require.NoError(t, db.Model(&order).Update("delivery_agent_id", agent.ID).Error)

	w := invoke(t, AcceptOrder, "agent", agent, nil, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusOutForDelivery, reloaded.Status)
	require.NotNil(t, reloaded.DeliveryAcceptedAt)
	require.Equal(t, int64(1), historyCount(t, db, order.ID))

	// Starting the run stamps a timestamp without a transition.
	w = invoke(t, StartDelivery, "agent", agent, nil, order.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusOutForDelivery, reloaded.Status)
	require.NotNil(t, reloaded.DeliveryStartedAt)
	require.Equal(t, int64(1), historyCount(t, db, order.ID))

	w = invoke(t, CompleteDelivery, "agent", agent, nil, order.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusDelivered, reloaded.Status)
	require.NotNil(t, reloaded.DeliveredAt)
	require.Equal(t, int64(2), historyCount(t, db, order.ID))
}

func TestStartDeliveryPublishesEvent(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "startevent@test.local")

	agent := models.DeliveryAgent{Email: "start-agent@test.local", Name: "Agent", IsActive: true}
	require.NoError(t, db.Create(&agent).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusOutForDelivery)
	require.NoError(t, db.Model(&order).Update("delivery_agent_id", agent.ID).Error)

	sub := realtime.DefaultHub.Subscribe(realtime.Scope{OrderID: order.ID})
	defer sub.Close()

	w := invoke(t, StartDelivery, "agent", agent, nil, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// The timestamp stamp has no status transition, but viewers still
	// hear about it.
	require.Len(t, sub.C, 1)
	event := <-sub.C
	require.Equal(t, realtime.EventDeliveryStarted, event.Type)
	require.Equal(t, order.ID, event.OrderID)
	require.Equal(t, agent.ID, event.AgentID)
}

func TestTerminalOrderRejectsFurtherTransitions(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "terminal@test.local")
	admin := models.Admin{Email: "admin@test.local", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusDelivered)

	w := invoke(t, AdminUpdateOrderStatus, "admin", admin, gin.H{"status": "cancelled"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusDelivered, reloaded.Status)
	require.Zero(t, historyCount(t, db, order.ID))
}

func TestAdminCannotSkipStatuses(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "skip@test.local")
	admin := models.Admin{Email: "admin2@test.local", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	w := invoke(t, AdminUpdateOrderStatus, "admin", admin, gin.H{"status": "packed"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = invoke(t, AdminUpdateOrderStatus, "admin", admin, gin.H{"status": "confirmed"}, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusConfirmed, reloaded.Status)
}

func TestCustomerCancelReversesLedgers(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "refund@test.local")

	require.NoError(t, db.Create(&models.Wallet{UserID: user.ID, Balance: 0}).Error)
	require.NoError(t, db.Create(&models.LoyaltyAccount{UserID: user.ID, TotalPoints: 10, LifetimeEarned: 210, LifetimeSpent: 200, Tier: models.LoyaltyTierBronze}).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusConfirmed)
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{
		"wallet_applied": 50.0,
		"points_used":    200,
	}).Error)
	// The earn ledger entry written at checkout, to be clawed back.
	require.NoError(t, db.Create(&models.LoyaltyTransaction{
		UserID: user.ID, Points: 10, Type: models.LoyaltyTxnEarned,
		OrderID: &order.ID, BalanceAfter: 10,
	}).Error)

	w := invoke(t, CancelOrder, "user", user, gin.H{"reason": "Changed my mind"}, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusCancelled, reloaded.Status)
	require.Equal(t, "Changed my mind", reloaded.CancelReason)

	// Wallet refunded with an audited entry.
	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	require.Equal(t, 50.0, wallet.Balance)
	var refunds []models.WalletTransaction
	require.NoError(t, db.Where("user_id = ? AND reference = ?", user.ID, models.WalletRefRefund).Find(&refunds).Error)
	require.Len(t, refunds, 1)
	require.Equal(t, 50.0, refunds[0].Amount)

	// Redeemed points returned, earned points clawed back:
	// 10 + 200 returned - 10 revoked = 200.
	var account models.LoyaltyAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	require.Equal(t, 200, account.TotalPoints)
	require.Equal(t, 0, account.LifetimeSpent)
}

func TestCustomerCannotCancelPackedOrder(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "late@test.local")

	order := seedOrder(t, db, user.ID, models.OrderStatusPacked)

	w := invoke(t, CancelOrder, "user", user, gin.H{"reason": "Too late"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusPacked, reloaded.Status)
}

func TestCustomerCannotCancelSomeoneElsesOrder(t *testing.T) {
	db := setupControllerTest(t)
	owner, _ := seedCustomer(t, db, "owner@test.local")
	other, _ := seedCustomer(t, db, "other@test.local")

	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	w := invoke(t, CancelOrder, "user", other, gin.H{"reason": "Not mine"}, order.ID)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminPaymentStatusIndependentOfOrderStatus(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "payment@test.local")
	admin := models.Admin{Email: "admin3@test.local", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	w := invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "paid"}, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)
	// Payment never drives delivery state.
	require.Equal(t, models.OrderStatusPending, reloaded.Status)

	w = invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "shipped"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentAxisFollowsTransitionTable(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "payaxis@test.local")
	admin := models.Admin{Email: "payadmin@test.local", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	// pending cannot jump straight to refunded.
	w := invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "refunded"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "paid"}, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// Re-settling an already paid order is rejected.
	w = invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "paid"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "refunded"}, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// refunded is terminal on the payment axis.
	w = invoke(t, AdminUpdatePaymentStatus, "admin", admin, gin.H{"payment_status": "paid"}, order.ID)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.PaymentStatusRefunded, reloaded.PaymentStatus)
}

func TestAdminAssignAgent(t *testing.T) {
	db := setupControllerTest(t)
	user, _ := seedCustomer(t, db, "assign@test.local")
	admin := models.Admin{Email: "admin4@test.local", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	agent := models.DeliveryAgent{Email: "assign-agent@test.local", Name: "Agent", IsActive: true}
	require.NoError(t, db.Create(&agent).Error)

	order := seedOrder(t, db, user.ID, models.OrderStatusPacked)

	w := invoke(t, AdminAssignAgent, "admin", admin, gin.H{"agent_id": agent.ID}, order.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.NotNil(t, reloaded.DeliveryAgentID)
	require.Equal(t, agent.ID, *reloaded.DeliveryAgentID)
}
