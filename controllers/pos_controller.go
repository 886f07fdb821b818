package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apperrors "github.com/yashrajoria/pos-terminal/errors"
	"github.com/yashrajoria/pos-terminal/logger"
	"github.com/yashrajoria/pos-terminal/models"
	"github.com/yashrajoria/pos-terminal/services"
	"go.uber.org/zap"
)

// POSService is the terminal core as seen by the HTTP layer.
type POSService interface {
	Snapshot() models.Snapshot
	Subscribe(l services.Listener) func()
	Currency() string

	FilterProducts(category, term string) []models.Product
	Categories() []models.Category
	Product(id string) (models.Product, bool)
	AdjustInventory(ctx context.Context, productID string, quantity int) error
	InventoryView(q models.InventoryQuery) []models.Product
	InventoryStats() models.InventoryStats

	CartSummary() models.CartSummary
	AddToCart(ctx context.Context, productID string) error
	UpdateCartItemQuantity(ctx context.Context, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
	Selection() models.Selection
	UpdateSelection(ctx context.Context, u models.SelectionUpdate) error

	FilterOrders(status, query string) []models.Order
	OrderCounts() models.OrderCounts
	Order(id string) (models.Order, bool)
	PlaceOrder(ctx context.Context, method models.PaymentMethod) (models.Order, error)
	CompleteOrder(ctx context.Context, orderID string) error
	CancelOrder(ctx context.Context, orderID string) error
	ModifyOrder(ctx context.Context, orderID string) error
	SendToKitchen(ctx context.Context, orderID string) error
	KitchenQueue() []models.KitchenTicket
	Dashboard() models.DashboardReport

	Day() models.BusinessDay
	OpenDay(ctx context.Context) error
	CloseDay(ctx context.Context) error

	BeginPayment(ctx context.Context, method models.PaymentMethod, amountPaid *decimal.Decimal) (models.PaymentSession, error)
	CancelPayment(ctx context.Context, paymentID string) error
	Payment(id string) (models.PaymentSession, bool)
}

// POSController handles HTTP requests for the terminal.
type POSController struct {
	svc    POSService
	logger *zap.Logger
}

// NewPOSController creates a new POSController.
func NewPOSController(svc POSService, logger *zap.Logger) *POSController {
	return &POSController{svc: svc, logger: logger}
}

func (pc *POSController) fail(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.ForRequest(pc.logger, c).Error("Request failed", zap.Error(err))
	}
	apperrors.Abort(c, appErr)
}

func (pc *POSController) badRequest(c *gin.Context, err error) {
	apperrors.Abort(c, apperrors.Validation(err))
}

// GetState handles GET /api/state.
func (pc *POSController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, pc.svc.Snapshot())
}

// ListProducts handles GET /api/products.
func (pc *POSController) ListProducts(c *gin.Context) {
	products := pc.svc.FilterProducts(c.Query("category"), c.Query("search"))
	c.JSON(http.StatusOK, gin.H{"products": products, "currency": pc.svc.Currency()})
}

// ListCategories handles GET /api/categories.
func (pc *POSController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": pc.svc.Categories()})
}

// AdjustInventory handles PUT /api/products/:id/inventory.
func (pc *POSController) AdjustInventory(c *gin.Context) {
	var req models.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.badRequest(c, err)
		return
	}
	id := c.Param("id")
	if err := pc.svc.AdjustInventory(c.Request.Context(), id, *req.Quantity); err != nil {
		pc.fail(c, err)
		return
	}
	p, _ := pc.svc.Product(id)
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// Inventory handles GET /api/inventory.
func (pc *POSController) Inventory(c *gin.Context) {
	var q models.InventoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		pc.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": pc.svc.InventoryView(q),
		"stats":    pc.svc.InventoryStats(),
	})
}

// GetCart handles GET /api/cart.
func (pc *POSController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, pc.svc.CartSummary())
}

// AddCartItem handles POST /api/cart/items.
func (pc *POSController) AddCartItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.badRequest(c, err)
		return
	}
	if err := pc.svc.AddToCart(c.Request.Context(), req.ProductID); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, pc.svc.CartSummary())
}

// UpdateCartItem handles PUT /api/cart/items/:id.
func (pc *POSController) UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.badRequest(c, err)
		return
	}
	if err := pc.svc.UpdateCartItemQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pc.svc.CartSummary())
}

// RemoveCartItem handles DELETE /api/cart/items/:id.
func (pc *POSController) RemoveCartItem(c *gin.Context) {
	if err := pc.svc.RemoveFromCart(c.Request.Context(), c.Param("id")); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pc.svc.CartSummary())
}

// ClearCart handles DELETE /api/cart.
func (pc *POSController) ClearCart(c *gin.Context) {
	if err := pc.svc.ClearCart(c.Request.Context()); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pc.svc.CartSummary())
}

// UpdateSelection handles PUT /api/selection.
func (pc *POSController) UpdateSelection(c *gin.Context) {
	var req models.SelectionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.badRequest(c, err)
		return
	}
	if err := pc.svc.UpdateSelection(c.Request.Context(), req); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": pc.svc.Selection()})
}

// ListOrders handles GET /api/orders.
func (pc *POSController) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders": pc.svc.FilterOrders(c.Query("status"), c.Query("search")),
		"counts": pc.svc.OrderCounts(),
	})
}

// PlaceOrder handles POST /api/orders. The body is optional; without a
// payment method the selected one is used.
func (pc *POSController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			pc.badRequest(c, err)
			return
		}
	}
	order, err := pc.svc.PlaceOrder(c.Request.Context(), req.PaymentMethod)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// orderTransition runs fn for the :id order and responds with the order as it
// is afterwards.
func (pc *POSController) orderTransition(fn func(ctx context.Context, orderID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := fn(c.Request.Context(), id); err != nil {
			pc.fail(c, err)
			return
		}
		order, _ := pc.svc.Order(id)
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// CompleteOrder handles POST /api/orders/:id/complete.
func (pc *POSController) CompleteOrder(c *gin.Context) {
	pc.orderTransition(pc.svc.CompleteOrder)(c)
}

// CancelOrder handles POST /api/orders/:id/cancel.
func (pc *POSController) CancelOrder(c *gin.Context) {
	pc.orderTransition(pc.svc.CancelOrder)(c)
}

// SendToKitchen handles POST /api/orders/:id/kitchen.
func (pc *POSController) SendToKitchen(c *gin.Context) {
	pc.orderTransition(pc.svc.SendToKitchen)(c)
}

// ModifyOrder handles POST /api/orders/:id/modify. The order leaves the
// ledger, so the response is the refilled cart.
func (pc *POSController) ModifyOrder(c *gin.Context) {
	if err := pc.svc.ModifyOrder(c.Request.Context(), c.Param("id")); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pc.svc.CartSummary())
}

// Kitchen handles GET /api/kitchen.
func (pc *POSController) Kitchen(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickets": pc.svc.KitchenQueue()})
}

// Dashboard handles GET /api/dashboard.
func (pc *POSController) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, pc.svc.Dashboard())
}

// OpenDay handles POST /api/day/open.
func (pc *POSController) OpenDay(c *gin.Context) {
	if err := pc.svc.OpenDay(c.Request.Context()); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": pc.svc.Day()})
}

// CloseDay handles POST /api/day/close.
func (pc *POSController) CloseDay(c *gin.Context) {
	if err := pc.svc.CloseDay(c.Request.Context()); err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": pc.svc.Day()})
}

// BeginPayment handles POST /api/payments.
func (pc *POSController) BeginPayment(c *gin.Context) {
	var req models.BeginPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.badRequest(c, err)
		return
	}
	session, err := pc.svc.BeginPayment(c.Request.Context(), req.Method, req.AmountPaid)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"payment": session})
}

// GetPayment handles GET /api/payments/:id.
func (pc *POSController) GetPayment(c *gin.Context) {
	session, ok := pc.svc.Payment(c.Param("id"))
	if !ok {
		pc.fail(c, services.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": session})
}

// CancelPayment handles DELETE /api/payments/:id.
func (pc *POSController) CancelPayment(c *gin.Context) {
	id := c.Param("id")
	if err := pc.svc.CancelPayment(c.Request.Context(), id); err != nil {
		pc.fail(c, err)
		return
	}
	session, _ := pc.svc.Payment(id)
	c.JSON(http.StatusOK, gin.H{"payment": session})
}
