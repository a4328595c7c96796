package routes

import (
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/controllers"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all back-office routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		coupons := admin.Group("/coupons")
		{
			coupons.GET("", controllers.ListCoupons)
			coupons.POST("", controllers.CreateCoupon)
			coupons.PUT("/:id", controllers.UpdateCoupon)
			coupons.DELETE("/:id", controllers.DeleteCoupon)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", controllers.AdminListOrders)
			orders.GET("/:id", controllers.AdminGetOrder)
			orders.PUT("/:id/status", controllers.AdminUpdateOrderStatus)
			orders.PUT("/:id/payment", controllers.AdminUpdatePaymentStatus)
			orders.PUT("/:id/agent", controllers.AdminAssignAgent)
		}
		admin.GET("/orders/events", controllers.AdminOrderEventsSocket)

		admin.POST("/wallet/adjust", controllers.AdminAdjustWallet)
		admin.POST("/loyalty/adjust", controllers.AdminAdjustPoints)
	}
}
