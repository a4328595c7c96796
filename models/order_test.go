package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusForwardPath(t *testing.T) {
	path := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusPacked,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		require.True(t, CanTransition(path[i], path[i+1]),
			"expected %s -> %s to be legal", path[i], path[i+1])
	}
}

func TestOrderStatusNoSkipping(t *testing.T) {
	require.False(t, CanTransition(OrderStatusPending, OrderStatusProcessing))
	require.False(t, CanTransition(OrderStatusPending, OrderStatusDelivered))
	require.False(t, CanTransition(OrderStatusConfirmed, OrderStatusOutForDelivery))
	require.False(t, CanTransition(OrderStatusPacked, OrderStatusDelivered))
}

func TestOrderStatusNoBackwards(t *testing.T) {
	require.False(t, CanTransition(OrderStatusConfirmed, OrderStatusPending))
	require.False(t, CanTransition(OrderStatusOutForDelivery, OrderStatusPacked))
	require.False(t, CanTransition(OrderStatusDelivered, OrderStatusOutForDelivery))
}

func TestCancellableFromAnyNonTerminalState(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusPacked,
		OrderStatusOutForDelivery,
	} {
		require.True(t, CanTransition(s, OrderStatusCancelled), "expected %s to be cancellable", s)
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusPacked,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		require.True(t, terminal.IsTerminal())
		for _, to := range all {
			require.False(t, CanTransition(terminal, to),
				"terminal %s must not transition to %s", terminal, to)
		}
	}
}

func TestCustomerCancellationWindow(t *testing.T) {
	require.True(t, CustomerCanCancelFrom(OrderStatusPending))
	require.True(t, CustomerCanCancelFrom(OrderStatusConfirmed))
	require.True(t, CustomerCanCancelFrom(OrderStatusProcessing))
	require.False(t, CustomerCanCancelFrom(OrderStatusPacked))
	require.False(t, CustomerCanCancelFrom(OrderStatusOutForDelivery))
	require.False(t, CustomerCanCancelFrom(OrderStatusDelivered))
	require.False(t, CustomerCanCancelFrom(OrderStatusCancelled))
}

func TestValidOrderStatus(t *testing.T) {
	require.True(t, ValidOrderStatus(OrderStatusPacked))
	require.False(t, ValidOrderStatus(OrderStatus("shipped")))
	require.False(t, ValidOrderStatus(OrderStatus("")))
}

func TestTierForLifetimeEarned(t *testing.T) {
	require.Equal(t, LoyaltyTierBronze, TierForLifetimeEarned(0))
	require.Equal(t, LoyaltyTierBronze, TierForLifetimeEarned(999))
	require.Equal(t, LoyaltyTierSilver, TierForLifetimeEarned(1000))
	require.Equal(t, LoyaltyTierGold, TierForLifetimeEarned(5000))
}
