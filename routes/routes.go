package routes

import (
	"cart-app/controllers"
	"cart-app/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func setupCommonRoutes(router *gin.Engine, mode string) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
	})
}

func SetupCartRoutes(router *gin.Engine, cartCtrl *controllers.CartController) {
	setupCommonRoutes(router, "cart")

	cart := router.Group("/cart")
	{
		cart.GET("", cartCtrl.GetCart)
		cart.GET("/events", cartCtrl.Events)
		cart.GET("/product-ids", cartCtrl.ProductIDs)
		cart.POST("/reload", cartCtrl.Reload)
		cart.DELETE("/items/:id", cartCtrl.RemoveItem)
		cart.PATCH("/items/:id/quantity", cartCtrl.ChangeQuantity)
		cart.POST("/coupon", cartCtrl.ApplyCoupon)
		cart.POST("/order", cartCtrl.PlaceOrder)
	}
}

type CatalogControllers struct {
	Catalog *controllers.CatalogController
	Product *controllers.ProductController
	Coupon  *controllers.CouponController
	Order   *controllers.OrderController
	Auth    *controllers.AuthController
}

func SetupCatalogRoutes(router *gin.Engine, ctrls CatalogControllers, jwtSecret string) {
	setupCommonRoutes(router, "catalog")

	router.GET("/products/:id", ctrls.Catalog.GetProduct)
	router.GET("/couponCodes.json", ctrls.Catalog.GetCouponCodes)
	router.POST("/orders/:group", ctrls.Catalog.CreateOrder)
	router.POST("/auth/login", ctrls.Auth.Login)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminMiddleware())
	{
		admin.GET("/products", ctrls.Product.GetAllProducts)
		admin.POST("/products", ctrls.Product.CreateProduct)
		admin.PATCH("/products/:id", ctrls.Product.UpdateProduct)
		admin.DELETE("/products/:id", ctrls.Product.DeleteProduct)

		admin.PUT("/coupons/:code", ctrls.Coupon.UpsertCoupon)
		admin.DELETE("/coupons/:code", ctrls.Coupon.DeleteCoupon)

		admin.GET("/orders", ctrls.Order.GetAllOrders)
	}
}
