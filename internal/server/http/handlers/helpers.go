package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wildfire-market/checkout/internal/server/http/middleware"
)

// CurrentSessionID extracts the checkout session identifier from context.
func CurrentSessionID(c *gin.Context) string {
	val, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}
