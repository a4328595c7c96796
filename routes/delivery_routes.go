package routes

import (
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/controllers"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/middleware"
	"github.com/gin-gonic/gin"
)

// initDeliveryRoutes initializes delivery-agent routes
func initDeliveryRoutes(router *gin.RouterGroup) {
	delivery := router.Group("/delivery")
	delivery.Use(middleware.DeliveryAgentMiddleware())
	{
		orders := delivery.Group("/orders")
		{
			orders.GET("", controllers.AgentListOrders)
			orders.POST("/:id/accept", controllers.AcceptOrder)
			orders.POST("/:id/start", controllers.StartDelivery)
			orders.POST("/:id/deliver", controllers.CompleteDelivery)
		}
		delivery.GET("/orders/events", controllers.AgentOrderEventsSocket)
	}
}
