package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orderworks/internal/domain"
)

type ctxKey string

const customerCtxKey ctxKey = "customer"

// authMiddleware resolves the bearer token to a customer and stores it on the
// request context. Requests without a valid access token are rejected.
func authMiddleware(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}
		customer, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), customerCtxKey, customer)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func customerFrom(c *gin.Context) *domain.Customer {
	if v, ok := c.Request.Context().Value(customerCtxKey).(*domain.Customer); ok {
		return v
	}
	return nil
}
