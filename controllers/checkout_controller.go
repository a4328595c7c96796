package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/realtime"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activeCouponFor loads the user's currently applied coupon, if any.
func activeCouponFor(db *gorm.DB, userID uint) (*models.Coupon, error) {
	var active models.UserActiveCoupon
	if err := db.Where("user_id = ?", userID).First(&active).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var coupon models.Coupon
	if err := db.First(&coupon, active.CouponID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetCheckoutSummary prices the current cart without side effects. The UI
// calls this on every relevant change (coupon, point slider, wallet
// toggle); the result is advisory until PlaceOrder re-validates it.
func GetCheckoutSummary(c *gin.Context) {
	utils.LogInfo("GetCheckoutSummary called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	items, subtotal, err := loadCart(user.ID)
	if err != nil {
		utils.LogError("Failed to get cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get cart details", nil)
		return
	}

	settings, err := config.GetStoreSettings(config.DB)
	if err != nil {
		utils.InternalServerError(c, "Failed to load store settings", nil)
		return
	}

	coupon, err := activeCouponFor(config.DB, user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to load applied coupon", nil)
		return
	}
	var usage int
	if coupon != nil {
		usage, err = userCouponUsage(config.DB, coupon.ID, user.ID)
		if err != nil {
			utils.InternalServerError(c, "Failed to check coupon usage", nil)
			return
		}
	}

	account, err := utils.GetOrCreateLoyaltyAccount(user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to load loyalty account", nil)
		return
	}
	wallet, err := utils.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	requestedPoints, _ := strconv.Atoi(c.DefaultQuery("points", "0"))
	useWallet := c.DefaultQuery("wallet", "false") == "true"

	result := utils.PriceOrder(utils.PricingInput{
		Subtotal:              subtotal,
		DeliveryCharge:        settings.DeliveryCharge,
		FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
		Coupon:                coupon,
		UserCouponUsage:       usage,
		RequestedPoints:       requestedPoints,
		AvailablePoints:       account.TotalPoints,
		PointValue:            settings.PointValue,
		UseWallet:             useWallet,
		WalletAvailable:       wallet.Balance,
		Now:                   time.Now(),
	})

	utils.Success(c, "Checkout summary retrieved successfully", gin.H{
		"can_checkout":   len(items) > 0,
		"items":          items,
		"pricing":        result,
		"wallet_balance": wallet.Balance,
		"points_balance": account.TotalPoints,
	})
}

// orderRejection carries a user-facing rejection out of the place-order
// transaction so partial state never leaks.
type orderRejection struct {
	conflict bool
	message  string
}

func (r *orderRejection) Error() string { return r.message }

// PlaceOrder commits a priced order atomically: the order row, its line
// items, the coupon usage + counter, the point and wallet debits with
// their audit rows, and the initial status history entry all land in one
// transaction. Every limit the calculator checked in advisory mode is
// re-checked here against locked rows.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("Processing order placement for user ID: %d", user.ID)

	var req struct {
		AddressID     uint   `json:"address_id" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
		UsePoints     int    `json:"use_points"`
		UseWallet     bool   `json:"use_wallet"`
		Note          string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	paymentMethod := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if paymentMethod != models.PaymentMethodCOD && paymentMethod != models.PaymentMethodOnline {
		utils.BadRequest(c, "Invalid payment method. Must be one of: cod, online", nil)
		return
	}
	if req.UsePoints < 0 {
		utils.BadRequest(c, "Points cannot be negative", nil)
		return
	}

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", req.AddressID, user.ID).First(&address).Error; err != nil {
		utils.LogError("Address not found, ID: %d, user ID: %d", req.AddressID, user.ID)
		utils.NotFound(c, "Address not found")
		return
	}

	settings, err := config.GetStoreSettings(config.DB)
	if err != nil {
		utils.InternalServerError(c, "Failed to load store settings", nil)
		return
	}
	if req.UsePoints > 0 && req.UsePoints < settings.MinPointsRedemption {
		utils.BadRequest(c, fmt.Sprintf("Minimum %d points required for redemption", settings.MinPointsRedemption), nil)
		return
	}

	var order models.Order
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", user.ID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return &orderRejection{message: "Cannot place order with empty cart"}
		}
		var subtotal float64
		for i := range items {
			if items[i].Quantity < 1 {
				return &orderRejection{message: "Cart contains an invalid quantity"}
			}
			subtotal += items[i].Subtotal()
		}

		// Re-read the coupon under lock; the advisory check from the
		// summary endpoint is not trusted here.
		var coupon *models.Coupon
		var usage int
		var active models.UserActiveCoupon
		if err := tx.Where("user_id = ?", user.ID).First(&active).Error; err == nil {
			var locked models.Coupon
			if err := utils.LockForUpdate(tx).First(&locked, active.CouponID).Error; err != nil {
				return &orderRejection{message: "Applied coupon no longer exists"}
			}
			coupon = &locked
			usage, err = userCouponUsage(tx, coupon.ID, user.ID)
			if err != nil {
				return err
			}
			if rejection := utils.ValidateCoupon(coupon, subtotal, usage, time.Now()); rejection != utils.CouponRejectionNone {
				return &orderRejection{conflict: true, message: rejection.Message()}
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		account, err := getOrCreateLoyaltyAccountLocked(tx, user.ID)
		if err != nil {
			return err
		}
		wallet, err := getOrCreateWalletLocked(tx, user.ID)
		if err != nil {
			return err
		}

		pricing := utils.PriceOrder(utils.PricingInput{
			Subtotal:              subtotal,
			DeliveryCharge:        settings.DeliveryCharge,
			FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
			Coupon:                coupon,
			UserCouponUsage:       usage,
			RequestedPoints:       req.UsePoints,
			AvailablePoints:       account.TotalPoints,
			PointValue:            settings.PointValue,
			UseWallet:             req.UseWallet,
			WalletAvailable:       wallet.Balance,
			Now:                   time.Now(),
		})
		if pricing.CouponRejection != utils.CouponRejectionNone {
			return &orderRejection{conflict: true, message: pricing.CouponRejection.Message()}
		}

		paymentStatus := models.PaymentStatusPending
		if paymentMethod == models.PaymentMethodOnline {
			paymentStatus = models.PaymentStatusPendingVerification
		}

		order = models.Order{
			OrderNumber:    uuid.New().String(),
			UserID:         user.ID,
			AddressID:      address.ID,
			Subtotal:       pricing.Subtotal,
			DeliveryCharge: pricing.DeliveryCharge,
			CouponDiscount: pricing.CouponDiscount,
			CouponCode:     pricing.CouponCode,
			PointsUsed:     pricing.PointsUsed,
			PointsDiscount: pricing.PointsDiscount,
			WalletApplied:  pricing.WalletApplied,
			FinalTotal:     pricing.FinalTotal,
			PaymentMethod:  paymentMethod,
			PaymentStatus:  paymentStatus,
			Status:         models.OrderStatusPending,
			Note:           req.Note,
		}
		if coupon != nil {
			order.CouponID = &coupon.ID
		}
		for i := range items {
			name := items[i].Product.Name
			order.OrderItems = append(order.OrderItems, models.OrderItem{
				ProductID:   items[i].ProductID,
				VariantID:   items[i].VariantID,
				ProductName: name,
				Price:       items[i].Price,
				Quantity:    items[i].Quantity,
				Total:       utils.RoundMoney(items[i].Subtotal()),
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Coupon usage row and counter move together or not at all.
		if coupon != nil {
			if err := tx.Create(&models.CouponUsage{
				CouponID:       coupon.ID,
				UserID:         user.ID,
				OrderID:        order.ID,
				DiscountAmount: pricing.CouponDiscount,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Coupon{}).Where("id = ?", coupon.ID).
				UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error; err != nil {
				return err
			}
		}

		if pricing.PointsUsed > 0 {
			if _, err := utils.RedeemPoints(tx, user.ID, pricing.PointsUsed, models.LoyaltyTxnRedeemed,
				fmt.Sprintf("Redeemed on order %s", order.OrderNumber), &order.ID); err != nil {
				if errors.Is(err, utils.ErrInsufficientPoints) {
					return &orderRejection{conflict: true, message: "Insufficient loyalty points"}
				}
				return err
			}
		}

		if pricing.WalletApplied > 0 {
			if _, err := utils.DebitWallet(tx, user.ID, pricing.WalletApplied,
				fmt.Sprintf("Payment for order %s", order.OrderNumber),
				models.WalletRefOrder, &order.ID); err != nil {
				if errors.Is(err, utils.ErrInsufficientBalance) {
					return &orderRejection{conflict: true, message: "Insufficient wallet balance"}
				}
				return err
			}
		}

		// Reward points accrue on the amount actually paid.
		if settings.PointsEarnRate > 0 {
			earned := int(pricing.FinalTotal * settings.PointsEarnRate)
			if earned > 0 {
				if _, err := utils.EarnPoints(tx, user.ID, earned, models.LoyaltyTxnEarned,
					fmt.Sprintf("Earned on order %s", order.OrderNumber), &order.ID); err != nil {
					return err
				}
			}
		}

		if err := tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    models.OrderStatusPending,
			ActorRole: models.ActorCustomer,
			ActorID:   user.ID,
			Note:      "Order placed",
		}).Error; err != nil {
			return err
		}

		// The cart and the active coupon are consumed by checkout.
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.UserActiveCoupon{}).Error
	})
	if err != nil {
		var rejection *orderRejection
		if errors.As(err, &rejection) {
			utils.LogError("Order rejected for user ID: %d: %s", user.ID, rejection.message)
			if rejection.conflict {
				utils.Conflict(c, rejection.message, nil)
			} else {
				utils.BadRequest(c, rejection.message, nil)
			}
			return
		}
		utils.LogError("Failed to place order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	utils.LogInfo("Created order %s (ID: %d) for user ID: %d, final total: %.2f",
		order.OrderNumber, order.ID, user.ID, order.FinalTotal)

	realtime.DefaultHub.Publish(realtime.Event{
		Type:          realtime.EventOrderCreated,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        string(order.Status),
		PaymentStatus: order.PaymentStatus,
	})
	go utils.SendOrderPlacedEmail(user.Email, &order)

	utils.Created(c, "Order placed successfully", gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"final_total":  order.FinalTotal,
		"amount_due":   utils.RoundMoney(order.FinalTotal - order.WalletApplied),
	})
}

// getOrCreateWalletLocked loads the user's wallet under lock, creating it
// first if needed.
func getOrCreateWalletLocked(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		wallet = models.Wallet{UserID: userID}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
	}
	if err := utils.LockForUpdate(tx).First(&wallet, wallet.ID).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// getOrCreateLoyaltyAccountLocked mirrors getOrCreateWalletLocked for
// loyalty accounts.
func getOrCreateLoyaltyAccountLocked(tx *gorm.DB, userID uint) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		account = models.LoyaltyAccount{UserID: userID, Tier: models.LoyaltyTierBronze}
		if err := tx.Create(&account).Error; err != nil {
			return nil, err
		}
	}
	if err := utils.LockForUpdate(tx).First(&account, account.ID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
