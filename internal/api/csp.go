package api

import (
	"net/http"
	"strings"

	"github.com/orderlyhq/orderly-starter/internal/utils"
)

// fixedFrameAncestors always appear in the frame-ancestors directive so
// Shopify Admin can embed the app.
var fixedFrameAncestors = []string{
	"https://admin.shopify.com",
	"https://*.myshopify.com",
}

// cspMiddleware sets a Content-Security-Policy header on every
// response. When the request carries a *.myshopify.com shop parameter,
// that shop's origin is allowed to embed the page as well.
func cspMiddleware(extra []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ancestors := make([]string, 0, len(fixedFrameAncestors)+len(extra)+1)
			ancestors = append(ancestors, fixedFrameAncestors...)
			if origin := utils.ShopOrigin(r.URL.Query().Get("shop")); origin != "" {
				ancestors = append(ancestors, origin)
			}
			ancestors = append(ancestors, extra...)

			w.Header().Set("Content-Security-Policy", "frame-ancestors "+strings.Join(ancestors, " "))
			next.ServeHTTP(w, r)
		})
	}
}
