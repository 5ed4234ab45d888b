package handler

import (
	"cart-app/config"
	"cart-app/libs"
	"cart-app/models"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const probeTimeout = 3 * time.Second

// Handler reports whether the configured catalog answers its coupon endpoint.
// An unreachable catalog turns the reply into a 503.
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	api := libs.NewAPIClient(cfg.CatalogBaseURL, probeTimeout)
	var coupons models.CouponCatalog
	err := api.GetJSON(ctx, api.URL("/couponCodes.json"), &coupons)

	response := map[string]interface{}{
		"status":  "ok",
		"mode":    cfg.AppMode,
		"catalog": cfg.CatalogBaseURL,
		"group":   cfg.OrderGroupID,
		"coupons": len(coupons),
		"path":    r.URL.Path,
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
		response["status"] = "degraded"
		response["error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
