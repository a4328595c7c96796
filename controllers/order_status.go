package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/realtime"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"gorm.io/gorm"
)

// transitionError distinguishes authorization rejections (403) from
// validation rejections (400/409) so the UIs can show "not allowed"
// rather than "bad input".
type transitionError struct {
	status  int
	message string
}

func authorizationError(message string) *transitionError {
	return &transitionError{status: http.StatusForbidden, message: message}
}

func validationError(message string) *transitionError {
	return &transitionError{status: http.StatusBadRequest, message: message}
}

func notFoundError(message string) *transitionError {
	return &transitionError{status: http.StatusNotFound, message: message}
}

// transition describes one requested status change.
type transition struct {
	to        models.OrderStatus
	actorRole string
	actorID   uint
	note      string
	// guard runs role/ownership checks against the locked order before
	// the transition table is consulted. Nil means no extra checks.
	guard func(order *models.Order) *transitionError
	// stamp sets role-specific timestamps on a permitted transition.
	stamp func(order *models.Order, now time.Time)
	// after runs inside the same transaction once the status change and
	// history row are written, for ledger side effects that must commit
	// with the transition (e.g. cancellation refunds).
	after func(tx *gorm.DB, order *models.Order) error
}

// applyTransition locks the order, enforces the guard and the transition
// table, updates the status, stamps timestamps, and appends exactly one
// history row. A rejected transition mutates nothing and writes no
// history. On success the change event is published after commit.
func applyTransition(orderID uint, t transition) (*models.Order, *transitionError) {
	var order models.Order

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.LockForUpdate(tx).First(&order, orderID).Error; err != nil {
			return gorm.ErrRecordNotFound
		}

		if t.guard != nil {
			if terr := t.guard(&order); terr != nil {
				return terr
			}
		}

		if order.Status.IsTerminal() {
			return validationError("Order is already " + string(order.Status))
		}
		if !models.CanTransition(order.Status, t.to) {
			return validationError("Cannot move order from " + string(order.Status) + " to " + string(t.to))
		}

		now := time.Now()
		order.Status = t.to
		order.UpdatedAt = now
		if t.stamp != nil {
			t.stamp(&order, now)
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    t.to,
			ActorRole: t.actorRole,
			ActorID:   t.actorID,
			Note:      t.note,
		}).Error; err != nil {
			return err
		}

		if t.after != nil {
			return t.after(tx, &order)
		}
		return nil
	})
	if err != nil {
		var terr *transitionError
		if errors.As(err, &terr) {
			return nil, terr
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		utils.LogError("Failed to apply transition on order %d: %v", orderID, err)
		return nil, &transitionError{status: http.StatusInternalServerError, message: "Failed to update order status"}
	}

	publishOrderEvent(realtime.EventStatusChanged, &order)
	notifyCustomer(&order)

	return &order, nil
}

func (e *transitionError) Error() string { return e.message }

// publishOrderEvent fans the order's current state out to subscribers.
// Called after the transaction commits so viewers only see durable state.
func publishOrderEvent(eventType realtime.EventType, order *models.Order) {
	event := realtime.Event{
		Type:          eventType,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        string(order.Status),
		PaymentStatus: order.PaymentStatus,
	}
	if order.DeliveryAgentID != nil {
		event.AgentID = *order.DeliveryAgentID
	}
	realtime.DefaultHub.Publish(event)
}

// notifyCustomer mails the status change to the order's owner,
// best-effort.
func notifyCustomer(order *models.Order) {
	var user models.User
	if err := config.DB.First(&user, order.UserID).Error; err != nil {
		utils.LogError("Failed to load user %d for status email: %v", order.UserID, err)
		return
	}
	go utils.SendOrderStatusEmail(user.Email, order)
}
