package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetCORSHeaders writes the JSON content type and the permissive CORS
// headers every response carries.
func SetCORSHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// CORS sets SetCORSHeaders on every response, error responses included.
// Preflight requests are answered by the route handlers so they stay visible
// in routing.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCORSHeaders(c.Writer.Header())
		c.Next()
	}
}
