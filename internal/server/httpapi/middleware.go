package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pontodigital/pontod/internal/server/auth"
)

// Context keys set by the auth middleware.
const (
	ctxEmployeeID  = "employee_id"
	ctxCompanyCode = "company_code"
)

// authRequired validates the bearer token and stores the claims on the
// request context.
func authRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
				Success: false, Message: "missing token", StatusCode: http.StatusUnauthorized,
			})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
				Success: false, Message: "invalid token", StatusCode: http.StatusUnauthorized,
			})
			return
		}

		c.Set(ctxEmployeeID, claims.EmployeeID)
		c.Set(ctxCompanyCode, claims.CompanyCode)
		c.Next()
	}
}
