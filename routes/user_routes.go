package routes

import (
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/controllers"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all customer-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		cart := user.Group("/cart")
		{
			cart.GET("", controllers.GetCart)
			cart.POST("/items", controllers.AddToCart)
			cart.PUT("/items/:id", controllers.UpdateCartItem)
			cart.DELETE("/items/:id", controllers.RemoveCartItem)
		}

		checkout := user.Group("/checkout")
		{
			checkout.GET("/summary", controllers.GetCheckoutSummary)
			checkout.POST("/coupon", controllers.ApplyCoupon)
			checkout.DELETE("/coupon", controllers.RemoveCoupon)
			checkout.POST("", controllers.PlaceOrder)
		}

		orders := user.Group("/orders")
		{
			orders.GET("", controllers.ListOrders)
			orders.GET("/:id", controllers.GetOrderDetail)
			orders.POST("/:id/cancel", controllers.CancelOrder)
			orders.GET("/:id/invoice", controllers.DownloadInvoice)
			orders.GET("/:id/events", controllers.UserSingleOrderSocket)
		}
		user.GET("/orders/events", controllers.UserOrderEventsSocket)

		wallet := user.Group("/wallet")
		{
			wallet.GET("", controllers.GetWalletBalance)
			wallet.GET("/transactions", controllers.GetWalletTransactions)
		}

		loyalty := user.Group("/loyalty")
		{
			loyalty.GET("", controllers.GetLoyaltyAccount)
			loyalty.GET("/transactions", controllers.GetLoyaltyTransactions)
			loyalty.POST("/convert", controllers.ConvertPoints)
		}
	}
}
