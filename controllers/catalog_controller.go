package controllers

import (
	"cart-app/models"
	"cart-app/services"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogController serves the endpoints the cart fetches from. Paths carry a
// ".json" suffix and missing records answer null, like the hosted mock API.
type CatalogController struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

func NewCatalogController(catalog *services.CatalogService, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalog: catalog, logger: logger}
}

func jsonParam(c *gin.Context, name string) string {
	return strings.TrimSuffix(c.Param(name), ".json")
}

// @Summary Get product
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID followed by .json"
// @Success 200 {object} models.Product
// @Router /products/{id} [get]
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(jsonParam(c, "id"))
	if err != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte("null"))
		return
	}

	product, err := ctrl.catalog.GetProduct(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte("null"))
		return
	}
	if err != nil {
		ctrl.logger.Error("get product failed", zap.Int("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary Get coupon codes
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.CouponCatalog
// @Router /couponCodes.json [get]
func (ctrl *CatalogController) GetCouponCodes(c *gin.Context) {
	catalog, err := ctrl.catalog.CouponCatalog(c.Request.Context())
	if err != nil {
		ctrl.logger.Error("get coupons failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get coupons"})
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// @Summary Submit order
// @Tags Catalog
// @Accept json
// @Produce json
// @Param group path string true "Order group followed by .json"
// @Param order body models.OrderSubmission true "Order"
// @Success 200 {object} models.OrderReceipt
// @Router /orders/{group} [post]
func (ctrl *CatalogController) CreateOrder(c *gin.Context) {
	group := jsonParam(c, "group")
	if group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order group required"})
		return
	}

	var sub models.OrderSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data; " + err.Error()})
		return
	}

	order, err := ctrl.catalog.PlaceOrder(c.Request.Context(), group, sub)
	if err != nil {
		ctrl.logger.Error("create order failed", zap.String("group", group), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store order"})
		return
	}

	c.JSON(http.StatusOK, models.OrderReceipt{Name: order.ID})
}
