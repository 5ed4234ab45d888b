package controllers

import (
	"cart-app/models"
	"cart-app/services"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	catalog      *services.CatalogService
	defaultGroup string
}

func NewOrderController(catalog *services.CatalogService, defaultGroup string) *OrderController {
	return &OrderController{catalog: catalog, defaultGroup: defaultGroup}
}

func (ctrl *OrderController) getPaginationParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	offset = (page - 1) * limit
	return page, limit, offset
}

func (ctrl *OrderController) generateLinks(c *gin.Context, page, limit, totalPages int) models.PaginationLinks {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}

	queryParams := c.Request.URL.Query()
	makeURL := func(pageNum int) string {
		params := url.Values{}
		for key, values := range queryParams {
			if key == "page" || key == "limit" {
				continue
			}
			for _, value := range values {
				params.Add(key, value)
			}
		}
		params.Set("page", strconv.Itoa(pageNum))
		params.Set("limit", strconv.Itoa(limit))
		return fmt.Sprintf("%s://%s%s?%s", scheme, c.Request.Host, c.Request.URL.Path, params.Encode())
	}

	links := models.PaginationLinks{Self: makeURL(page)}
	if page > 1 {
		links.Prev = makeURL(page - 1)
	}
	if page < totalPages {
		links.Next = makeURL(page + 1)
	}
	return links
}

func (ctrl *OrderController) buildResponse(c *gin.Context, message string, data interface{}, page, limit, totalItems int) models.HATEOASResponse {
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}

	return models.HATEOASResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta: models.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
		Links: ctrl.generateLinks(c, page, limit, totalPages),
	}
}

// @Summary Get all orders
// @Description Orders of one group, newest first (Admin)
// @Tags Admin - Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param group query string false "Order group"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit, offset := ctrl.getPaginationParams(c, 10)
	group := c.DefaultQuery("group", ctrl.defaultGroup)

	orders, total, err := ctrl.catalog.ListOrders(c.Request.Context(), group, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to get orders",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ctrl.buildResponse(c, "Orders retrieved successfully", orders, page, limit, total))
}
