package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipe-scraper/models"
)

// Info returns a handler for GET /, describing how to call the API.
func Info() gin.HandlerFunc {
	resp := models.InfoResponse{
		Message: "Recipe Scraper API",
		Status:  "running",
		Usage:   "Send a POST request with JSON body containing 'url' field",
		Example: models.InfoExample{URL: "https://example.com/recipe"},
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, resp)
	}
}

// Preflight answers CORS preflight requests: headers only, no body.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
	}
}

// MethodNotAllowed is installed as the router's NoMethod handler.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
			Error: fmt.Sprintf("method %s not allowed", c.Request.Method),
			Code:  models.ErrCodeMethodNotAllowed,
		})
	}
}

// NotFound is installed as the router's NoRoute handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: fmt.Sprintf("path %s not found", c.Request.URL.Path),
		})
	}
}
