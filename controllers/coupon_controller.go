package controllers

import (
	"cart-app/models"
	"cart-app/repositories"
	"cart-app/services"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CouponController struct {
	catalog *services.CatalogService
}

func NewCouponController(catalog *services.CatalogService) *CouponController {
	return &CouponController{catalog: catalog}
}

// @Summary Create or update coupon
// @Tags Admin - Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Param coupon body models.UpsertCouponRequest true "Discount multiplier"
// @Success 200 {object} models.Response
// @Router /admin/coupons/{code} [put]
func (ctrl *CouponController) UpsertCoupon(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Coupon code is required"})
		return
	}

	var req models.UpsertCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Discount must be in (0, 1]", Error: err.Error()})
		return
	}

	if err := ctrl.catalog.UpsertCoupon(c.Request.Context(), code, req.Discount); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Message: "Failed to save coupon", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Coupon saved",
		Data:    gin.H{"code": code, "discount": req.Discount},
	})
}

// @Summary Delete coupon
// @Tags Admin - Coupons
// @Security BearerAuth
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/coupons/{code} [delete]
func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	code := c.Param("code")

	err := ctrl.catalog.DeleteCoupon(c.Request.Context(), code)
	if errors.Is(err, repositories.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Coupon not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Message: "Failed to delete coupon", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Coupon deleted"})
}
