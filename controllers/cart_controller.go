package controllers

import (
	"cart-app/models"
	"cart-app/services"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartController struct {
	cart   *services.CartService
	ids    *services.ProductIDSet
	logger *zap.Logger
}

func NewCartController(cart *services.CartService, ids *services.ProductIDSet, logger *zap.Logger) *CartController {
	return &CartController{cart: cart, ids: ids, logger: logger}
}

func (ctrl *CartController) productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid product ID"})
		return 0, false
	}
	return id, true
}

func (ctrl *CartController) ok(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.Response{Success: true, Message: message, Data: ctrl.cart.View()})
}

// @Summary Get cart
// @Description Current line items, total and discount state
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	ctrl.ok(c, "Cart retrieved successfully")
}

// @Summary Reload cart
// @Description Start a new session: re-read stored cart, re-fetch products and coupons
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart/reload [post]
func (ctrl *CartController) Reload(c *gin.Context) {
	ctrl.cart.Reset()
	ctrl.cart.Initialize(c.Request.Context())
	ctrl.ok(c, "Cart reloaded")
}

// @Summary Remove item
// @Tags Cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	id, ok := ctrl.productID(c)
	if !ok {
		return
	}

	if err := ctrl.cart.RemoveItem(c.Request.Context(), id); err != nil {
		ctrl.logger.Error("remove item failed", zap.Int("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to remove item",
			Error:   err.Error(),
		})
		return
	}
	ctrl.ok(c, "Item removed")
}

// @Summary Change quantity
// @Description Step the quantity up or down by one; stepping down to zero removes the item
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body models.ChangeQuantityRequest true "Direction"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{id}/quantity [patch]
func (ctrl *CartController) ChangeQuantity(c *gin.Context) {
	id, ok := ctrl.productID(c)
	if !ok {
		return
	}

	var req models.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Direction must be up or down",
			Error:   err.Error(),
		})
		return
	}

	err := ctrl.cart.ChangeQuantity(c.Request.Context(), id, req.Direction)
	switch {
	case err == nil:
		ctrl.ok(c, "Quantity updated")
	case errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Item not in cart", Error: err.Error()})
	case errors.Is(err, services.ErrInvalidDirection):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Direction must be up or down", Error: err.Error()})
	default:
		ctrl.logger.Error("change quantity failed", zap.Int("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Message: "Failed to update quantity", Error: err.Error()})
	}
}

// @Summary Apply coupon
// @Description A coupon can be applied once per session
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/coupon [post]
func (ctrl *CartController) ApplyCoupon(c *gin.Context) {
	var req models.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Coupon code is required", Error: err.Error()})
		return
	}

	if err := ctrl.cart.ApplyCoupon(req.Code); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Coupon does not exist",
			Error:   err.Error(),
		})
		return
	}
	ctrl.ok(c, "Coupon applied")
}

// @Summary Place order
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.PlaceOrderRequest false "Order name"
// @Success 201 {object} models.Response{data=models.OrderReceipt}
// @Failure 502 {object} models.ErrorResponse
// @Router /cart/order [post]
func (ctrl *CartController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid order body", Error: err.Error()})
		return
	}

	receipt, err := ctrl.cart.PlaceOrder(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Success: false,
			Message: "Failed to place order",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    receipt,
	})
}

// @Summary Tracked product ids
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart/product-ids [get]
func (ctrl *CartController) ProductIDs(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product ids retrieved", Data: ctrl.ids.IDs()})
}

// @Summary Cart events
// @Description Server-Sent Events: a snapshot first, then one event per cart mutation
// @Tags Cart
// @Produce text/event-stream
// @Router /cart/events [get]
func (ctrl *CartController) Events(c *gin.Context) {
	events, cancel := ctrl.cart.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("snapshot", ctrl.cart.View())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev.View)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
