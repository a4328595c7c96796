package controllers

import (
	"net/http"
	"strconv"

	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/config"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/models"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/realtime"
	"github.com/NeoCoderZ-25/Digital-Kirana-Shop-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveSubscription upgrades the connection and streams hub events until
// either side goes away. The read loop exists only to notice disconnects;
// clients are not expected to send anything.
func serveSubscription(c *gin.Context, scope realtime.Scope) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogError("WebSocket upgrade failed: %v", err)
		return
	}

	sub := realtime.DefaultHub.Subscribe(scope)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		sub.Close()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// UserOrderEventsSocket streams events for all of the user's orders
func UserOrderEventsSocket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("WebSocket opened for user ID: %d", user.ID)
	serveSubscription(c, realtime.Scope{UserID: user.ID})
}

// UserSingleOrderSocket streams events for one order the user owns
func UserSingleOrderSocket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Select("id").Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	serveSubscription(c, realtime.Scope{OrderID: order.ID})
}

// AdminOrderEventsSocket streams every order event to the admin dashboard
func AdminOrderEventsSocket(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	utils.LogInfo("Admin WebSocket opened for admin ID: %d", admin.ID)
	serveSubscription(c, realtime.Scope{All: true})
}

// AgentOrderEventsSocket streams events for orders assigned to the agent
func AgentOrderEventsSocket(c *gin.Context) {
	agent, ok := currentAgent(c)
	if !ok {
		return
	}
	utils.LogInfo("Agent WebSocket opened for agent ID: %d", agent.ID)
	serveSubscription(c, realtime.Scope{AgentID: agent.ID})
}
