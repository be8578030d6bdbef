package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequirePlan returns middleware that gates a route to the given subscription
// plans. Analysis is open to every authenticated user; saving charts is a
// paid-tier feature.
func RequirePlan(allowedPlans ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract plan from context
		planInterface, exists := c.Get("plan")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "user plan not found in context"})
			c.Abort()
			return
		}

		userPlan, ok := planInterface.(string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid plan format"})
			c.Abort()
			return
		}

		// Check if user plan is in allowed plans
		authorized := false
		for _, allowedPlan := range allowedPlans {
			if userPlan == allowedPlan {
				authorized = true
				break
			}
		}

		if !authorized {
			c.JSON(http.StatusForbidden, gin.H{"error": "plan upgrade required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
