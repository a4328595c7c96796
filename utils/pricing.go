package utils

import (
	"math"
	"strings"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
)

// CouponRejection is the typed reason a coupon did not apply. The
// calculator reports it in the result instead of failing the whole
// pricing pass; callers decide whether to surface it.
type CouponRejection string

const (
	CouponRejectionNone          CouponRejection = ""
	CouponRejectionInactive      CouponRejection = "coupon_inactive"
	CouponRejectionNotStarted    CouponRejection = "coupon_not_started"
	CouponRejectionExpired       CouponRejection = "coupon_expired"
	CouponRejectionMinOrder      CouponRejection = "below_min_order_value"
	CouponRejectionFullyRedeemed CouponRejection = "coupon_fully_redeemed"
	CouponRejectionUserLimit     CouponRejection = "user_limit_reached"
)

// Message returns the user-facing text for a rejection reason.
func (r CouponRejection) Message() string {
	switch r {
	case CouponRejectionInactive:
		return "Coupon is not active"
	case CouponRejectionNotStarted:
		return "Coupon is not valid yet"
	case CouponRejectionExpired:
		return "Coupon has expired"
	case CouponRejectionMinOrder:
		return "Cart total is less than minimum order value for this coupon"
	case CouponRejectionFullyRedeemed:
		return "Coupon has been fully redeemed"
	case CouponRejectionUserLimit:
		return "You have already used this coupon the maximum number of times"
	}
	return ""
}

// PricingInput carries everything the calculator needs. All balances and
// limits are supplied by the caller; the calculator itself does no I/O and
// its output is advisory until re-checked at commit time.
type PricingInput struct {
	Subtotal              float64
	DeliveryCharge        float64
	FreeDeliveryThreshold float64

	Coupon          *models.Coupon
	UserCouponUsage int // prior redemptions of this coupon by this user

	RequestedPoints int
	AvailablePoints int
	PointValue      float64

	UseWallet       bool
	WalletAvailable float64

	Now time.Time
}

// PricingResult is the priced breakdown for a checkout attempt.
type PricingResult struct {
	Subtotal        float64         `json:"subtotal"`
	DeliveryCharge  float64         `json:"delivery_charge"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	CouponDiscount  float64         `json:"coupon_discount"`
	CouponRejection CouponRejection `json:"coupon_rejection,omitempty"`
	PointsUsed      int             `json:"points_used"`
	PointsDiscount  float64         `json:"points_discount"`
	FinalTotal      float64         `json:"final_total"`
	WalletApplied   float64         `json:"wallet_applied"`
	AmountDue       float64         `json:"amount_due"`
}

// RoundMoney rounds an amount to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceOrder computes the priced breakdown for a cart. Discounts apply in
// a fixed order: delivery fee first, then coupon, then points. The coupon's
// minimum-order check and maximum-discount cap are evaluated against the
// pre-points subtotal, so this ordering must not change.
func PriceOrder(in PricingInput) PricingResult {
	result := PricingResult{
		Subtotal: RoundMoney(in.Subtotal),
	}

	// Step 1: delivery fee, waived at the free-delivery threshold.
	if in.Subtotal < in.FreeDeliveryThreshold {
		result.DeliveryCharge = RoundMoney(in.DeliveryCharge)
	}

	// Step 2: coupon.
	if in.Coupon != nil {
		rejection := ValidateCoupon(in.Coupon, in.Subtotal, in.UserCouponUsage, in.Now)
		if rejection != CouponRejectionNone {
			result.CouponRejection = rejection
		} else {
			result.CouponCode = strings.ToUpper(in.Coupon.Code)
			result.CouponDiscount = CouponDiscount(in.Coupon, in.Subtotal, result.DeliveryCharge)
		}
	}

	// Step 3: points, clamped to the remaining payable amount and to the
	// user's balance.
	remaining := result.Subtotal + result.DeliveryCharge - result.CouponDiscount
	if in.RequestedPoints > 0 && in.PointValue > 0 {
		points := in.RequestedPoints
		if points > in.AvailablePoints {
			points = in.AvailablePoints
		}
		discount := float64(points) * in.PointValue
		if discount > remaining {
			points = int(math.Floor(remaining / in.PointValue))
			discount = float64(points) * in.PointValue
		}
		result.PointsUsed = points
		result.PointsDiscount = RoundMoney(discount)
	}

	total := result.Subtotal + result.DeliveryCharge - result.CouponDiscount - result.PointsDiscount
	if total < 0 {
		total = 0
	}
	result.FinalTotal = RoundMoney(total)

	// Wallet contribution is capped at the post-discount total.
	if in.UseWallet && in.WalletAvailable > 0 {
		applied := in.WalletAvailable
		if applied > result.FinalTotal {
			applied = result.FinalTotal
		}
		result.WalletApplied = RoundMoney(applied)
	}
	result.AmountDue = RoundMoney(result.FinalTotal - result.WalletApplied)

	return result
}

// ValidateCoupon checks a coupon's eligibility against the supplied cart
// subtotal and usage counts. The counts are advisory; PlaceOrder re-checks
// them against committed rows inside the order transaction.
func ValidateCoupon(coupon *models.Coupon, subtotal float64, userUsage int, now time.Time) CouponRejection {
	if !coupon.Active {
		return CouponRejectionInactive
	}
	if !coupon.ValidFrom.IsZero() && now.Before(coupon.ValidFrom) {
		return CouponRejectionNotStarted
	}
	if !coupon.ValidUntil.IsZero() && now.After(coupon.ValidUntil) {
		return CouponRejectionExpired
	}
	if coupon.MinOrderValue > 0 && subtotal < coupon.MinOrderValue {
		return CouponRejectionMinOrder
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return CouponRejectionFullyRedeemed
	}
	if coupon.PerUserLimit > 0 && userUsage >= coupon.PerUserLimit {
		return CouponRejectionUserLimit
	}
	return CouponRejectionNone
}

// CouponDiscount computes the discount an eligible coupon yields on the
// given subtotal, clamped to the cap and to the payable amount.
func CouponDiscount(coupon *models.Coupon, subtotal, deliveryCharge float64) float64 {
	var discount float64
	if coupon.Type == models.CouponTypePercent {
		discount = subtotal * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	} else {
		discount = coupon.Value
	}
	if payable := subtotal + deliveryCharge; discount > payable {
		discount = payable
	}
	return RoundMoney(discount)
}
