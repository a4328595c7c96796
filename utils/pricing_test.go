package utils

import (
	"testing"
	"time"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/stretchr/testify/require"
)

func percentCoupon(value, maxDiscount float64) *models.Coupon {
	return &models.Coupon{
		Code:        "SAVE",
		Type:        models.CouponTypePercent,
		Value:       value,
		MaxDiscount: maxDiscount,
		ValidFrom:   time.Now().Add(-time.Hour),
		ValidUntil:  time.Now().Add(time.Hour),
		Active:      true,
	}
}

func TestDeliveryChargeThreshold(t *testing.T) {
	below := PriceOrder(PricingInput{Subtotal: 450, DeliveryCharge: 40, FreeDeliveryThreshold: 499})
	require.Equal(t, 40.0, below.DeliveryCharge)
	require.Equal(t, 490.0, below.FinalTotal)

	atThreshold := PriceOrder(PricingInput{Subtotal: 500, DeliveryCharge: 40, FreeDeliveryThreshold: 499})
	require.Equal(t, 0.0, atThreshold.DeliveryCharge)
	require.Equal(t, 500.0, atThreshold.FinalTotal)
}

func TestPercentCouponCappedAtMaxDiscount(t *testing.T) {
	result := PriceOrder(PricingInput{
		Subtotal:              1000,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		Coupon:                percentCoupon(20, 100),
		Now:                   time.Now(),
	})
	// raw 20% of 1000 is 200, capped to 100
	require.Equal(t, CouponRejectionNone, result.CouponRejection)
	require.Equal(t, 100.0, result.CouponDiscount)
	require.Equal(t, 900.0, result.FinalTotal)
}

func TestFlatCouponClampedToPayable(t *testing.T) {
	coupon := &models.Coupon{
		Code:       "BIGFLAT",
		Type:       models.CouponTypeFlat,
		Value:      500,
		ValidUntil: time.Now().Add(time.Hour),
		Active:     true,
	}
	result := PriceOrder(PricingInput{
		Subtotal:              200,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		Coupon:                coupon,
		Now:                   time.Now(),
	})
	require.Equal(t, 240.0, result.CouponDiscount)
	require.Equal(t, 0.0, result.FinalTotal)
}

func TestCouponRejectionReasons(t *testing.T) {
	now := time.Now()

	inactive := percentCoupon(10, 0)
	inactive.Active = false
	require.Equal(t, CouponRejectionInactive, ValidateCoupon(inactive, 1000, 0, now))

	notStarted := percentCoupon(10, 0)
	notStarted.ValidFrom = now.Add(time.Hour)
	require.Equal(t, CouponRejectionNotStarted, ValidateCoupon(notStarted, 1000, 0, now))

	expired := percentCoupon(10, 0)
	expired.ValidUntil = now.Add(-time.Hour)
	require.Equal(t, CouponRejectionExpired, ValidateCoupon(expired, 1000, 0, now))

	minOrder := percentCoupon(10, 0)
	minOrder.MinOrderValue = 500
	require.Equal(t, CouponRejectionMinOrder, ValidateCoupon(minOrder, 499, 0, now))
	require.Equal(t, CouponRejectionNone, ValidateCoupon(minOrder, 500, 0, now))

	exhausted := percentCoupon(10, 0)
	exhausted.UsageLimit = 5
	exhausted.UsedCount = 5
	require.Equal(t, CouponRejectionFullyRedeemed, ValidateCoupon(exhausted, 1000, 0, now))

	perUser := percentCoupon(10, 0)
	perUser.PerUserLimit = 1
	require.Equal(t, CouponRejectionUserLimit, ValidateCoupon(perUser, 1000, 1, now))
	require.Equal(t, CouponRejectionNone, ValidateCoupon(perUser, 1000, 0, now))
}

func TestRejectedCouponAppliesNoDiscount(t *testing.T) {
	expired := percentCoupon(20, 0)
	expired.ValidUntil = time.Now().Add(-time.Hour)
	result := PriceOrder(PricingInput{
		Subtotal:              1000,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		Coupon:                expired,
		Now:                   time.Now(),
	})
	require.Equal(t, CouponRejectionExpired, result.CouponRejection)
	require.Equal(t, 0.0, result.CouponDiscount)
	require.Equal(t, 1000.0, result.FinalTotal)
}

func TestPointsClampedToBalanceAndPayable(t *testing.T) {
	// balance clamp: asking for more points than held
	result := PriceOrder(PricingInput{
		Subtotal:              1000,
		FreeDeliveryThreshold: 499,
		RequestedPoints:       500,
		AvailablePoints:       200,
		PointValue:            0.25,
	})
	require.Equal(t, 200, result.PointsUsed)
	require.Equal(t, 50.0, result.PointsDiscount)
	require.Equal(t, 950.0, result.FinalTotal)

	// payable clamp: points worth more than the coupon-reduced total
	result = PriceOrder(PricingInput{
		Subtotal:              100,
		FreeDeliveryThreshold: 499,
		DeliveryCharge:        40,
		Coupon:                percentCoupon(50, 0),
		RequestedPoints:       1000,
		AvailablePoints:       1000,
		PointValue:            0.25,
		Now:                   time.Now(),
	})
	// payable after coupon: 100 + 40 - 50 = 90 -> at most 360 points
	require.Equal(t, 360, result.PointsUsed)
	require.Equal(t, 90.0, result.PointsDiscount)
	require.Equal(t, 0.0, result.FinalTotal)
}

func TestWalletCappedAtFinalTotal(t *testing.T) {
	result := PriceOrder(PricingInput{
		Subtotal:              300,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		UseWallet:             true,
		WalletAvailable:       1000,
	})
	require.Equal(t, 340.0, result.FinalTotal)
	require.Equal(t, 340.0, result.WalletApplied)
	require.Equal(t, 0.0, result.AmountDue)

	partial := PriceOrder(PricingInput{
		Subtotal:              300,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		UseWallet:             true,
		WalletAvailable:       100,
	})
	require.Equal(t, 100.0, partial.WalletApplied)
	require.Equal(t, 240.0, partial.AmountDue)
}

func TestFinalTotalNeverNegative(t *testing.T) {
	coupon := &models.Coupon{
		Code:       "ALL",
		Type:       models.CouponTypeFlat,
		Value:      10000,
		ValidUntil: time.Now().Add(time.Hour),
		Active:     true,
	}
	result := PriceOrder(PricingInput{
		Subtotal:              100,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		Coupon:                coupon,
		RequestedPoints:       100,
		AvailablePoints:       100,
		PointValue:            0.25,
		Now:                   time.Now(),
	})
	require.GreaterOrEqual(t, result.FinalTotal, 0.0)
}

func TestPricingIsDeterministic(t *testing.T) {
	now := time.Now()
	in := PricingInput{
		Subtotal:              750.50,
		DeliveryCharge:        40,
		FreeDeliveryThreshold: 499,
		Coupon:                percentCoupon(15, 80),
		RequestedPoints:       120,
		AvailablePoints:       400,
		PointValue:            0.25,
		UseWallet:             true,
		WalletAvailable:       55.25,
		Now:                   now,
	}
	first := PriceOrder(in)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, PriceOrder(in))
	}
}
