package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/pos-terminal/controllers"
	"github.com/yashrajoria/pos-terminal/middleware"
)

// RegisterPOSRoutes sets up all terminal routes. requestTimeout bounds every
// route except the long-lived state stream.
func RegisterPOSRoutes(r *gin.Engine, pc *controllers.POSController, requestTimeout time.Duration) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "pos-terminal"})
	})

	api := r.Group("/api")
	api.GET("/stream", pc.Stream)

	bounded := api.Group("")
	bounded.Use(middleware.Timeout(requestTimeout))

	bounded.GET("/state", pc.GetState)
	bounded.GET("/dashboard", pc.Dashboard)
	bounded.GET("/kitchen", pc.Kitchen)
	bounded.PUT("/selection", pc.UpdateSelection)

	bounded.GET("/products", pc.ListProducts)
	bounded.PUT("/products/:id/inventory", pc.AdjustInventory)
	bounded.GET("/categories", pc.ListCategories)
	bounded.GET("/inventory", pc.Inventory)

	cart := bounded.Group("/cart")
	cart.GET("", pc.GetCart)
	cart.DELETE("", pc.ClearCart)
	cart.POST("/items", pc.AddCartItem)
	cart.PUT("/items/:id", pc.UpdateCartItem)
	cart.DELETE("/items/:id", pc.RemoveCartItem)

	orders := bounded.Group("/orders")
	orders.GET("", pc.ListOrders)
	orders.POST("", pc.PlaceOrder)
	orders.POST("/:id/complete", pc.CompleteOrder)
	orders.POST("/:id/cancel", pc.CancelOrder)
	orders.POST("/:id/modify", pc.ModifyOrder)
	orders.POST("/:id/kitchen", pc.SendToKitchen)

	day := bounded.Group("/day")
	day.POST("/open", pc.OpenDay)
	day.POST("/close", pc.CloseDay)

	payments := bounded.Group("/payments")
	payments.POST("", pc.BeginPayment)
	payments.GET("/:id", pc.GetPayment)
	payments.DELETE("/:id", pc.CancelPayment)
}
